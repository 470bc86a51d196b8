// Package plugin loads operator-installed JavaScript extractors.
//
// A plugin file calls registerExtractor({metadata, canHandle, extract}).
// Every plugin gets its own goja runtime, driven by a single goroutine.
package plugin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/blang/semver"
	"github.com/charmbracelet/log"
	"github.com/dop251/goja"
	"github.com/krau/SaveFolio/pkg/extractor"
)

var (
	LatestAPIVersion  = semver.MustParse("1.0.0")
	MinimumAPIVersion = semver.MustParse("1.0.0")

	CanHandleTimeout = 2 * time.Second
)

type Meta struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Author      string `json:"author"`
}

type method uint

const (
	_ method = iota
	methodCanHandle
	methodExtract
)

type request struct {
	ctx    context.Context
	method method
	fn     goja.Callable
	url    string
	respCh chan response
}

type response struct {
	items []extractor.MediaItem
	ok    bool
	err   error
}

// runtime is one plugin file's VM. All calls into it go through reqCh and
// run on a single goroutine; ctx is the context of the call in progress.
type runtime struct {
	vm    *goja.Runtime
	ctx   context.Context
	reqCh chan request
}

func newRuntime() *runtime {
	rt := &runtime{vm: goja.New(), reqCh: make(chan request, 10)}
	go rt.loop()
	return rt
}

func (rt *runtime) loop() {
	for req := range rt.reqCh {
		rt.ctx = req.ctx
		stop := context.AfterFunc(req.ctx, func() {
			rt.vm.Interrupt("extraction cancelled")
		})
		req.respCh <- rt.call(req)
		stop()
		rt.vm.ClearInterrupt()
		rt.ctx = nil
	}
}

func (rt *runtime) call(req request) response {
	res, err := req.fn(goja.Undefined(), rt.vm.ToValue(req.url))
	if err != nil {
		return response{err: err}
	}
	switch req.method {
	case methodCanHandle:
		return response{ok: res.ToBoolean()}
	case methodExtract:
		items, err := exportItems(res)
		if err != nil {
			return response{err: err}
		}
		return response{items: items}
	}
	return response{err: fmt.Errorf("unknown method %d", req.method)}
}

type jsExtractor struct {
	meta        Meta
	rt          *runtime
	canHandleFn goja.Callable
	extractFn   goja.Callable
}

func (p *jsExtractor) Platform() string { return p.meta.Name }

func (p *jsExtractor) Meta() Meta { return p.meta }

// CanHandle runs the plugin's canHandle. A call that does not finish within
// CanHandleTimeout is interrupted and counts as false.
func (p *jsExtractor) CanHandle(url string) bool {
	if p.canHandleFn == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), CanHandleTimeout)
	defer cancel()
	respCh := make(chan response, 1)
	select {
	case p.rt.reqCh <- request{ctx: ctx, method: methodCanHandle, fn: p.canHandleFn, url: url, respCh: respCh}:
	case <-ctx.Done():
		return false
	}
	select {
	case resp := <-respCh:
		return resp.ok && resp.err == nil
	case <-ctx.Done():
		return false
	}
}

func (p *jsExtractor) Extract(ctx context.Context, url string) ([]extractor.MediaItem, error) {
	respCh := make(chan response, 1)
	select {
	case p.rt.reqCh <- request{ctx: ctx, method: methodExtract, fn: p.extractFn, url: url, respCh: respCh}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case resp := <-respCh:
		if resp.err != nil {
			return nil, extractor.NewError(p.meta.Name, "plugin extraction failed", resp.err)
		}
		return resp.items, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// exportItems accepts either an array of items or an object with an items
// array and normalizes the result.
func exportItems(v goja.Value) ([]extractor.MediaItem, error) {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, fmt.Errorf("JS function returned null or undefined")
	}
	data, err := json.Marshal(v.Export())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result to JSON: %w", err)
	}
	var items []extractor.MediaItem
	if err := json.Unmarshal(data, &items); err != nil {
		var wrapped struct {
			Items []extractor.MediaItem `json:"items"`
		}
		if err2 := json.Unmarshal(data, &wrapped); err2 != nil {
			return nil, fmt.Errorf("failed to unmarshal JSON to items: %w", err)
		}
		items = wrapped.Items
	}
	return extractor.Normalize(items), nil
}

func registerExtractor(rt *runtime, out *[]extractor.Extractor) func(call goja.FunctionCall) goja.Value {
	vm := rt.vm
	return func(call goja.FunctionCall) goja.Value {
		jsObj := call.Argument(0)
		if goja.IsUndefined(jsObj) || goja.IsNull(jsObj) {
			panic(vm.NewTypeError("registerExtractor expects an object { metadata, canHandle, extract }"))
		}
		obj := jsObj.ToObject(vm)
		metaValue := obj.Get("metadata")
		if metaValue == nil || goja.IsUndefined(metaValue) || goja.IsNull(metaValue) {
			panic(vm.NewTypeError("extractor must provide metadata"))
		}
		var meta Meta
		data, err := json.Marshal(metaValue.Export())
		if err != nil {
			panic(vm.NewTypeError(fmt.Sprintf("failed to marshal metadata to JSON: %v", err)))
		}
		if err := json.Unmarshal(data, &meta); err != nil {
			panic(vm.NewTypeError(fmt.Sprintf("failed to unmarshal JSON to metadata: %v", err)))
		}
		if strings.TrimSpace(meta.Name) == "" {
			panic(vm.NewTypeError("metadata.name is required"))
		}

		v, err := semver.Parse(meta.Version)
		if err != nil {
			panic(vm.NewTypeError(fmt.Sprintf("invalid metadata.version %q: %v", meta.Version, err)))
		}
		if v.LT(MinimumAPIVersion) {
			panic(vm.NewTypeError(fmt.Sprintf("extractor version %s is not supported, must be at least %s", meta.Version, MinimumAPIVersion)))
		}
		if v.Major > LatestAPIVersion.Major {
			panic(vm.NewTypeError(fmt.Sprintf("extractor major version %d is too new, latest supported major version is %d", v.Major, LatestAPIVersion.Major)))
		}

		extractFn, ok := goja.AssertFunction(obj.Get("extract"))
		if !ok {
			panic(vm.NewTypeError("extractor must provide an extract function"))
		}
		canHandleFn, _ := goja.AssertFunction(obj.Get("canHandle"))

		*out = append(*out, &jsExtractor{meta: meta, rt: rt, canHandleFn: canHandleFn, extractFn: extractFn})
		return goja.Undefined()
	}
}

// Load runs every .js file in dir and returns the extractors they register.
func Load(ctx context.Context, dir string, client *http.Client) ([]extractor.Extractor, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var loaded []extractor.Extractor
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".js" {
			continue
		}
		code, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		exts, err := LoadScript(ctx, e.Name(), string(code), client)
		if err != nil {
			return nil, err
		}
		loaded = append(loaded, exts...)
	}
	return loaded, nil
}

// LoadScript evaluates one plugin source.
func LoadScript(ctx context.Context, name, code string, client *http.Client) ([]extractor.Extractor, error) {
	logger := log.FromContext(ctx).WithPrefix(fmt.Sprintf("plugin/extractor: %s", name))
	rt := newRuntime()
	var registered []extractor.Extractor
	rt.vm.Set("registerExtractor", registerExtractor(rt, &registered))
	rt.vm.Set("console", jsConsole(logger))
	rt.vm.Set("ghttp", jsGhttp(rt, client))
	if _, err := rt.vm.RunString(code); err != nil {
		close(rt.reqCh)
		return nil, fmt.Errorf("error loading plugin %s: %w", name, err)
	}
	if len(registered) == 0 {
		close(rt.reqCh)
		logger.Warn("Plugin registered no extractor")
	}
	return registered, nil
}
