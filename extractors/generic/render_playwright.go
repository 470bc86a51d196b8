//go:build !no_playwright

package generic

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/playwright-community/playwright-go"
)

var installOnce sync.Once
var installErr error

func renderPage(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	slogger := slog.New(log.FromContext(ctx).WithPrefix("playwright"))
	installOnce.Do(func() {
		installErr = playwright.Install(&playwright.RunOptions{
			Browsers:        []string{"chromium"},
			DriverDirectory: "./playwright",
			Logger:          slogger,
		})
	})
	if installErr != nil {
		return nil, fmt.Errorf("failed to install playwright: %w", installErr)
	}

	pw, err := playwright.Run(&playwright.RunOptions{
		DriverDirectory: "./playwright",
		Logger:          slogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}
	defer pw.Stop()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	resp, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to navigate: %w", err)
	}
	if resp != nil && resp.Status() >= 400 {
		return nil, fmt.Errorf("bad status code: %d", resp.Status())
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	content, err := page.Content()
	if err != nil {
		return nil, fmt.Errorf("failed to get page content: %w", err)
	}
	return []byte(content), nil
}
