package plugin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/dop251/goja"
	"github.com/krau/SaveFolio/common/utils/netutil"
)

var jsConsole = func(logger *log.Logger) map[string]any {
	return map[string]any{
		"log": func(args ...any) {
			if len(args) == 0 {
				return
			}
			if len(args) > 1 {
				logger.Info(args[0], args[1:]...)
			} else {
				logger.Info(args[0])
			}
		},
	}
}

/*
jsGhttp provides a http helper for js plugins

It provides the following functions:
  - get(url): performs a GET request and returns the response body as string
  - getJSON(url): performs a GET request and returns {data: <parsed JSON>}

Failures are returned as {error, status?} objects instead of thrown.
*/
var jsGhttp = func(rt *runtime, client *http.Client) *goja.Object {
	vm := rt.vm
	ghttp := vm.NewObject()
	if client == nil {
		client = netutil.DefaultClient()
	}
	fetch := func(url string) ([]byte, goja.Value) {
		ctx := rt.ctx
		if ctx == nil {
			ctx = context.Background()
		}
		resp, err := netutil.Get(ctx, client, url, nil)
		if err != nil {
			errObj := map[string]any{"error": fmt.Sprintf("failed to fetch %s: %v", url, err)}
			if code := netutil.StatusCode(err); code != 0 {
				errObj["status"] = code
			}
			return nil, vm.ToValue(errObj)
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(io.LimitReader(resp.Body, netutil.MaxPageSize))
		if err != nil {
			return nil, vm.ToValue(map[string]any{
				"error": fmt.Errorf("failed to read response body: %w", err).Error(),
			})
		}
		return body, nil
	}
	ghttp.Set("get", func(call goja.FunctionCall) goja.Value {
		body, errV := fetch(call.Argument(0).String())
		if errV != nil {
			return errV
		}
		return vm.ToValue(string(body))
	})
	ghttp.Set("getJSON", func(call goja.FunctionCall) goja.Value {
		body, errV := fetch(call.Argument(0).String())
		if errV != nil {
			return errV
		}
		var data any
		if err := json.Unmarshal(body, &data); err != nil {
			return vm.ToValue(map[string]any{
				"error": fmt.Errorf("failed to unmarshal JSON: %w", err).Error(),
			})
		}
		return vm.ToValue(map[string]any{"data": data})
	})
	return ghttp
}
