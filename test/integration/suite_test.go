//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"github.com/jsamuelsen/quotekeeper/internal/adapters/http/handlers"
)

// scenario holds the state of one feature scenario: a fresh fake remote,
// a fresh service and the last response.
type scenario struct {
	t      *testing.T
	dir    string
	remote *fakeRemote
	svc    *service

	status int
	body   []byte
}

func (sc *scenario) theRemoteServerHasPosts(table *godog.Table) error {
	posts := make([]remotePost, 0, len(table.Rows)-1)

	for i, row := range table.Rows {
		if i == 0 {
			continue
		}

		posts = append(posts, remotePost{UserID: 1, ID: i, Title: row.Cells[0].Value})
	}

	sc.remote.setPosts(posts...)

	return nil
}

func (sc *scenario) theRemoteServerIsDown() error {
	sc.remote.failing.Store(true)
	return nil
}

func (sc *scenario) theServiceIsRunning() error {
	if sc.svc != nil {
		return nil
	}

	sc.svc = startService(sc.t, testConfig(sc.t, sc.remote, filepath.Join(sc.dir, "quotes.db")))

	return nil
}

func (sc *scenario) theServiceIsRestarted() error {
	if err := sc.svc.Stop(); err != nil {
		return fmt.Errorf("stopping service: %w", err)
	}

	sc.svc = nil

	return sc.theServiceIsRunning()
}

func (sc *scenario) send(method, path string, body any) error {
	sc.status, sc.body = sc.svc.request(sc.t, method, path, body)
	return nil
}

func (sc *scenario) iAddTheQuoteInCategory(text, category string) error {
	return sc.send(http.MethodPost, "/api/v1/quotes", handlers.AddQuoteRequest{Text: text, Category: category})
}

func (sc *scenario) iSelectTheCategory(category string) error {
	return sc.send(http.MethodPut, "/api/v1/filter", handlers.SetFilterRequest{Category: category})
}

func (sc *scenario) iSync() error {
	return sc.send(http.MethodPost, "/api/v1/sync", nil)
}

func (sc *scenario) iSyncWithPolicy(policy string) error {
	return sc.send(http.MethodPost, "/api/v1/sync", map[string]string{"policy": policy})
}

func (sc *scenario) iRequest(method, path string) error {
	return sc.send(method, path, nil)
}

func (sc *scenario) theResponseStatusShouldBe(expected int) error {
	if sc.status != expected {
		return fmt.Errorf("expected status %d, got %d: %s", expected, sc.status, sc.body)
	}

	return nil
}

func (sc *scenario) theResponseShouldContain(text string) error {
	if !strings.Contains(string(sc.body), text) {
		return fmt.Errorf("response does not contain %q: %s", text, sc.body)
	}

	return nil
}

func (sc *scenario) syncOutcome() (handlers.SyncResponse, error) {
	var outcome handlers.SyncResponse

	if sc.status != http.StatusOK {
		return outcome, fmt.Errorf("sync failed with status %d: %s", sc.status, sc.body)
	}

	err := json.Unmarshal(sc.body, &outcome)

	return outcome, err
}

func (sc *scenario) theSyncShouldReport(added, updated, removed int) error {
	outcome, err := sc.syncOutcome()
	if err != nil {
		return err
	}

	if outcome.Added != added || outcome.Updated != updated || outcome.Removed != removed {
		return fmt.Errorf("expected %d/%d/%d added/updated/removed, got %+v", added, updated, removed, outcome)
	}

	return nil
}

func (sc *scenario) theSyncShouldReportNoChange() error {
	outcome, err := sc.syncOutcome()
	if err != nil {
		return err
	}

	if outcome.Changed {
		return fmt.Errorf("expected no change, got %+v", outcome)
	}

	return nil
}

func (sc *scenario) theStoreShouldHoldQuotes(expected int) error {
	var page struct {
		Total int `json:"total"`
	}

	status, raw := sc.svc.request(sc.t, http.MethodGet, "/api/v1/quotes", nil)
	if status != http.StatusOK {
		return fmt.Errorf("listing quotes: status %d", status)
	}

	if err := json.Unmarshal(raw, &page); err != nil {
		return err
	}

	if page.Total != expected {
		return fmt.Errorf("expected %d quotes, got %d", expected, page.Total)
	}

	return nil
}

func (sc *scenario) theCategoriesShouldBe(list string) error {
	var cats handlers.CategoriesResponse

	status, raw := sc.svc.request(sc.t, http.MethodGet, "/api/v1/categories", nil)
	if status != http.StatusOK {
		return fmt.Errorf("listing categories: status %d", status)
	}

	if err := json.Unmarshal(raw, &cats); err != nil {
		return err
	}

	want := strings.Split(list, ", ")
	if strings.Join(cats.Categories, ", ") != strings.Join(want, ", ") {
		return fmt.Errorf("expected categories %v, got %v", want, cats.Categories)
	}

	return nil
}

func (sc *scenario) theSelectedCategoryShouldBe(category string) error {
	var sel handlers.SelectionResponse

	status, raw := sc.svc.request(sc.t, http.MethodGet, "/api/v1/filter", nil)
	if status != http.StatusOK {
		return fmt.Errorf("reading filter: status %d", status)
	}

	if err := json.Unmarshal(raw, &sel); err != nil {
		return err
	}

	if sel.Category != category {
		return fmt.Errorf("expected selected category %q, got %q", category, sel.Category)
	}

	return nil
}

func (sc *scenario) iShouldBeNotified(message string) error {
	var resp handlers.NotificationsResponse

	status, raw := sc.svc.request(sc.t, http.MethodGet, "/api/v1/notifications", nil)
	if status != http.StatusOK {
		return fmt.Errorf("reading notifications: status %d", status)
	}

	if err := json.Unmarshal(raw, &resp); err != nil {
		return err
	}

	for _, n := range resp.Notifications {
		if strings.HasPrefix(n.Message, message) {
			return nil
		}
	}

	return errors.New("no notification starting with " + message)
}

// initializeScenario registers the quote steps. Each scenario gets its own
// remote, store file and service.
func initializeScenario(t *testing.T) func(*godog.ScenarioContext) {
	return func(ctx *godog.ScenarioContext) {
		sc := &scenario{t: t}

		ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
			sc.dir = t.TempDir()
			sc.remote = newFakeRemote(t)
			sc.svc = nil

			return ctx, nil
		})

		ctx.After(func(ctx context.Context, _ *godog.Scenario, err error) (context.Context, error) {
			if sc.svc != nil {
				_ = sc.svc.Stop()
			}

			return ctx, err
		})

		ctx.Step(`^the remote server has posts:$`, sc.theRemoteServerHasPosts)
		ctx.Step(`^the remote server is down$`, sc.theRemoteServerIsDown)
		ctx.Step(`^the service is running$`, sc.theServiceIsRunning)
		ctx.Step(`^the service is restarted$`, sc.theServiceIsRestarted)
		ctx.Step(`^I add the quote "([^"]*)" in category "([^"]*)"$`, sc.iAddTheQuoteInCategory)
		ctx.Step(`^I select the category "([^"]*)"$`, sc.iSelectTheCategory)
		ctx.Step(`^I sync with the remote server$`, sc.iSync)
		ctx.Step(`^I sync with the remote server using the "([^"]*)" policy$`, sc.iSyncWithPolicy)
		ctx.Step(`^I request (GET|POST|PUT) "([^"]*)"$`, sc.iRequest)
		ctx.Step(`^the response status should be (\d+)$`, sc.theResponseStatusShouldBe)
		ctx.Step(`^the response should contain "([^"]*)"$`, sc.theResponseShouldContain)
		ctx.Step(`^the sync should report (\d+) added, (\d+) updated and (\d+) removed$`, sc.theSyncShouldReport)
		ctx.Step(`^the sync should report no change$`, sc.theSyncShouldReportNoChange)
		ctx.Step(`^the store should hold (\d+) quotes$`, sc.theStoreShouldHoldQuotes)
		ctx.Step(`^the categories should be "([^"]*)"$`, sc.theCategoriesShouldBe)
		ctx.Step(`^the selected category should be "([^"]*)"$`, sc.theSelectedCategoryShouldBe)
		ctx.Step(`^I should be notified "([^"]*)"$`, sc.iShouldBeNotified)
	}
}

// TestFeatures runs the godog scenarios under test/features.
func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeScenario(t),
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../features"},
			TestingT: t,
			Tags:     os.Getenv("GODOG_TAGS"),
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
