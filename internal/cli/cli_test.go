package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"tourdesk/internal/devserver"
	"tourdesk/internal/store"

	"github.com/m-mizutani/gt"
	"github.com/xuri/excelize/v2"
)

// scriptedPrompter answers prompts by label. Unlisted inputs keep their
// default; unlisted selects take the default index.
type scriptedPrompter struct {
	inputs  map[string]string
	selects map[string]string
	confirm bool
	asked   []string
}

func (p *scriptedPrompter) Input(message, def string, validate func(string) error) (string, error) {
	p.asked = append(p.asked, message)
	v, ok := p.inputs[strings.TrimSuffix(message, " *")]
	if !ok {
		v = def
	}
	if validate != nil {
		if err := validate(v); err != nil {
			return "", err
		}
	}
	return v, nil
}

func (p *scriptedPrompter) Password(message string) (string, error) {
	p.asked = append(p.asked, message)
	return p.inputs[message], nil
}

func (p *scriptedPrompter) Select(message string, options []string, def int) (int, error) {
	p.asked = append(p.asked, message)
	want, ok := p.selects[strings.TrimSuffix(message, " *")]
	if !ok {
		return def, nil
	}
	for i, o := range options {
		if o == want {
			return i, nil
		}
	}
	return def, nil
}

func (p *scriptedPrompter) Confirm(message string, def bool) (bool, error) {
	p.asked = append(p.asked, message)
	return p.confirm, nil
}

func newDevServer(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	docs, err := store.OpenDocuments(ctx, filepath.Join(t.TempDir(), "dev.sqlite"))
	gt.NoError(t, err).Required()
	t.Cleanup(func() { _ = docs.Close() })
	_, err = devserver.Seed(ctx, docs)
	gt.NoError(t, err).Required()

	srv := httptest.NewServer(devserver.New(docs))
	t.Cleanup(srv.Close)
	return srv.URL
}

func isolateConfig(t *testing.T) {
	t.Helper()
	t.Setenv("TOURDESK_CONFIG_DIR", t.TempDir())
	t.Setenv("TOURDESK_BASE_URL", "")
	t.Setenv("TOURDESK_TOKEN", "")
	t.Setenv("TOURDESK_FORMAT", "")
}

func runCLI(t *testing.T, pr prompter, args ...string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := newRootCmd(&App{prompt: pr})

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

func mustRun(t *testing.T, pr prompter, args ...string) map[string]any {
	t.Helper()
	stdout, stderr, err := runCLI(t, pr, args...)
	if err != nil {
		t.Fatalf("command failed: tourdesk %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", args, err, stderr, stdout)
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("stdout is not a JSON envelope: %v\n%s", err, stdout)
	}
	return env
}

func dataMap(t *testing.T, env map[string]any) map[string]any {
	t.Helper()
	m, ok := env["data"].(map[string]any)
	if !ok {
		t.Fatalf("data is not an object: %#v", env["data"])
	}
	return m
}

func dataList(t *testing.T, env map[string]any) []any {
	t.Helper()
	xs, ok := env["data"].([]any)
	if !ok {
		t.Fatalf("data is not a list: %#v", env["data"])
	}
	return xs
}

func TestCustomers_CRUD(t *testing.T) {
	isolateConfig(t)
	base := newDevServer(t)

	created := dataMap(t, mustRun(t, nil, "--base-url", base, "customers", "create",
		"--set", "name=Bo Reyes", "--set", "email=bo@example.com", "--set", "city=Panaji"))
	id, _ := created["_id"].(string)
	gt.String(t, id).NotEqual("")
	gt.Value(t, created["name"]).Equal("Bo Reyes")

	mustRun(t, nil, "--base-url", base, "customers", "create", "--set", "name=Amy Stone")

	list := dataList(t, mustRun(t, nil, "--base-url", base, "customers", "list"))
	gt.Array(t, list).Length(2)
	gt.Value(t, list[0].(map[string]any)["name"]).Equal("Amy Stone")

	list = dataList(t, mustRun(t, nil, "--base-url", base, "customers", "list", "--search", "PANAJI"))
	gt.Array(t, list).Length(1)

	list = dataList(t, mustRun(t, nil, "--base-url", base, "customers", "list", "--order", "desc"))
	gt.Value(t, list[0].(map[string]any)["name"]).Equal("Bo Reyes")

	edited := dataMap(t, mustRun(t, nil, "--base-url", base, "customers", "edit", id, "--set", "phone=98200 00000"))
	gt.Value(t, edited["phone"]).Equal("98200 00000")
	gt.Value(t, edited["city"]).Equal("Panaji")

	stdout, _, err := runCLI(t, nil, "--base-url", base, "--format", "table", "customers", "show", id)
	gt.NoError(t, err).Required()
	gt.String(t, string(stdout)).Contains("Phone: 98200 00000")

	deleted := dataMap(t, mustRun(t, nil, "--base-url", base, "customers", "delete", id, "--yes"))
	gt.Value(t, deleted["deleted"]).Equal(id)

	list = dataList(t, mustRun(t, nil, "--base-url", base, "customers", "list"))
	gt.Array(t, list).Length(1)
}

func TestCreate_ValidationFailsBeforeRequest(t *testing.T) {
	isolateConfig(t)
	base := newDevServer(t)

	_, stderr, err := runCLI(t, nil, "--base-url", base, "customers", "create", "--set", "email=not-an-email")
	gt.Error(t, err)
	gt.String(t, string(stderr)).Contains("Name is required")
	gt.String(t, string(stderr)).Contains("Email must be a valid email")

	list := dataList(t, mustRun(t, nil, "--base-url", base, "customers", "list"))
	gt.Array(t, list).Length(0)
}

func TestCreate_UnknownFieldAndBadSort(t *testing.T) {
	isolateConfig(t)
	base := newDevServer(t)

	_, stderr, err := runCLI(t, nil, "--base-url", base, "customers", "create", "--set", "nickname=Bo")
	gt.Error(t, err)
	gt.String(t, string(stderr)).Contains(`unknown field: "nickname"`)

	_, stderr, err = runCLI(t, nil, "--base-url", base, "customers", "list", "--sort", "shoeSize")
	gt.Error(t, err)
	gt.String(t, string(stderr)).Contains("unknown sort key")
}

func TestDelete_PromptDeclinedKeepsRecord(t *testing.T) {
	isolateConfig(t)
	base := newDevServer(t)
	created := dataMap(t, mustRun(t, nil, "--base-url", base, "customers", "create", "--set", "name=Amy"))
	id := created["_id"].(string)

	pr := &scriptedPrompter{confirm: false}
	_, _, err := runCLI(t, pr, "--base-url", base, "customers", "delete", id)
	gt.Error(t, err)
	gt.Array(t, pr.asked).Length(1)

	list := dataList(t, mustRun(t, nil, "--base-url", base, "customers", "list"))
	gt.Array(t, list).Length(1)
}

func TestDelete_MissingRecordShowsServerMessage(t *testing.T) {
	isolateConfig(t)
	base := newDevServer(t)

	_, stderr, err := runCLI(t, nil, "--base-url", base, "payments", "delete", "nope", "--yes")
	gt.Error(t, err)
	gt.String(t, string(stderr)).Contains("Record not found")
}

func TestHotelBooking_RoomTypeFillsRates(t *testing.T) {
	isolateConfig(t)
	base := newDevServer(t)

	rec := dataMap(t, mustRun(t, nil, "--base-url", base, "hotel-bookings", "create",
		"--set", "guestName=Bo",
		"--set", "destination=dest-goa",
		"--set", "hotel=hotel-seaview",
		"--set", "roomType=Deluxe",
		"--set", "checkIn=2024-03-01",
		"--set", "checkOut=2024-03-03",
	))
	gt.Value(t, rec["ratePerNight"]).Equal(3600.0)
	gt.Value(t, rec["extraBedRate"]).Equal(800.0)
	gt.Value(t, rec["nights"]).Equal(2.0)
	gt.Value(t, rec["grandTotal"]).Equal(7200.0)
}

func TestHotelBooking_ChangingDestinationClearsHotel(t *testing.T) {
	isolateConfig(t)
	base := newDevServer(t)

	_, stderr, err := runCLI(t, nil, "--base-url", base, "hotel-bookings", "create",
		"--set", "guestName=Bo",
		"--set", "hotel=hotel-seaview",
		"--set", "destination=dest-munnar",
		"--set", "checkIn=2024-03-01",
		"--set", "checkOut=2024-03-03",
	)
	gt.Error(t, err)
	gt.String(t, string(stderr)).Contains("Hotel is required")
}

func TestCreate_Interactive(t *testing.T) {
	isolateConfig(t)
	base := newDevServer(t)

	pr := &scriptedPrompter{
		inputs: map[string]string{
			"Guest name": "Cy",
			"Check-in":   "2024-05-10",
			"Check-out":  "2024-05-13",
		},
		selects: map[string]string{
			"Destination": "Munnar",
			"Hotel":       "Tea Hills Retreat",
			"Room type":   "Suite",
		},
	}
	rec := dataMap(t, mustRun(t, pr, "--base-url", base, "hotel-bookings", "create", "--interactive"))
	gt.Value(t, rec["roomType"]).Equal("Suite")
	gt.Value(t, rec["ratePerNight"]).Equal(6500.0)
	gt.Value(t, rec["grandTotal"]).Equal(19500.0)
	hotel, _ := rec["hotel"].(map[string]any)
	gt.Value(t, hotel["hotelName"]).Equal("Tea Hills Retreat")
}

func TestLookups(t *testing.T) {
	isolateConfig(t)
	base := newDevServer(t)

	dests := dataList(t, mustRun(t, nil, "--base-url", base, "lookups", "destinations"))
	gt.Array(t, dests).Length(3)

	hotels := dataList(t, mustRun(t, nil, "--base-url", base, "lookups", "hotels", "--destination", "dest-goa"))
	gt.Array(t, hotels).Length(2)

	_, _, err := runCLI(t, nil, "--base-url", base, "lookups", "hotels")
	gt.Error(t, err)
}

func TestExport_WritesWorkbook(t *testing.T) {
	isolateConfig(t)
	base := newDevServer(t)
	mustRun(t, nil, "--base-url", base, "customers", "create", "--set", "name=Amy", "--set", "email=amy@example.com")
	mustRun(t, nil, "--base-url", base, "customers", "create", "--set", "name=Bo")

	out := filepath.Join(t.TempDir(), "out", "backoffice.xlsx")
	res := dataMap(t, mustRun(t, nil, "--base-url", base, "export", "--all", "--out", out))
	counts := res["records"].(map[string]any)
	gt.Value(t, counts["customers"]).Equal(2.0)
	gt.Value(t, counts["payments"]).Equal(0.0)

	f, err := excelize.OpenFile(out)
	gt.NoError(t, err).Required()
	defer f.Close()
	gt.Array(t, f.GetSheetList()).Length(6)

	rows, err := f.GetRows("Customers")
	gt.NoError(t, err).Required()
	gt.Array(t, rows).Length(3)
	gt.Value(t, rows[0][0]).Equal("Name")
	gt.Value(t, rows[1][0]).Equal("Amy")
	gt.Value(t, rows[1][1]).Equal("amy@example.com")

	_, _, err = runCLI(t, nil, "--base-url", base, "export", "nope", "--out", out)
	gt.Error(t, err)
}

func TestConfig_SetGetMasksToken(t *testing.T) {
	isolateConfig(t)

	mustRunQuiet := func(args ...string) string {
		t.Helper()
		stdout, stderr, err := runCLI(t, nil, args...)
		if err != nil {
			t.Fatalf("tourdesk %v: %v\n%s", args, err, stderr)
		}
		return strings.TrimSpace(string(stdout))
	}

	mustRunQuiet("config", "set", "currency", "$")
	mustRunQuiet("config", "set", "token", "s3cret")
	gt.Value(t, mustRunQuiet("config", "get", "currency")).Equal("$")
	gt.Value(t, mustRunQuiet("config", "get", "token")).Equal(maskedToken)
	gt.Value(t, mustRunQuiet("config", "get", "token", "--reveal")).Equal("s3cret")

	all := dataMap(t, mustRun(t, nil, "config", "get"))
	gt.Value(t, all["token"]).Equal(maskedToken)

	_, _, err := runCLI(t, nil, "config", "set", "tui.view", "grid")
	gt.Error(t, err)
	_, _, err = runCLI(t, nil, "config", "get", "colour")
	gt.Error(t, err)
}

func TestLogin_PromptsForToken(t *testing.T) {
	isolateConfig(t)
	base := newDevServer(t)

	pr := &scriptedPrompter{inputs: map[string]string{"Token": "tok-1"}}
	res := dataMap(t, mustRun(t, pr, "--base-url", base, "login", "--check"))
	gt.Value(t, res["baseUrl"]).Equal(base)

	cfg, err := store.LoadConfig()
	gt.NoError(t, err).Required()
	gt.Value(t, cfg.Token).Equal("tok-1")
	gt.Value(t, cfg.BaseURL).Equal(base)

	// The stored base URL is used when no flag is given.
	list := dataList(t, mustRun(t, nil, "customers", "list"))
	gt.Array(t, list).Length(0)
}

func TestNoBaseURL(t *testing.T) {
	isolateConfig(t)
	_, stderr, err := runCLI(t, nil, "customers", "list")
	gt.Error(t, err)
	gt.String(t, string(stderr)).Contains("no API base URL")
}

func TestDocs(t *testing.T) {
	isolateConfig(t)
	topics := dataMap(t, mustRun(t, nil, "docs"))
	gt.Array(t, topics["topics"].([]any)).Length(5)

	stdout, _, err := runCLI(t, nil, "docs", "keys", "--raw")
	gt.NoError(t, err).Required()
	gt.String(t, string(stdout)).Contains("# Keys")

	_, _, err = runCLI(t, nil, "docs", "nope")
	gt.Error(t, err)
}

func TestPublish(t *testing.T) {
	isolateConfig(t)
	base := newDevServer(t)
	created := dataMap(t, mustRun(t, nil, "--base-url", base, "customers", "create",
		"--set", "name=Amy Stone", "--set", "city=Goa"))
	id := created["_id"].(string)

	stdout, stderr, err := runCLI(t, nil, "--base-url", base, "publish", "customers", id)
	if err != nil {
		t.Fatalf("publish record: %v\n%s", err, stderr)
	}
	gt.String(t, string(stdout)).Contains("# Amy Stone")
	gt.String(t, string(stdout)).Contains("- City: Goa")

	stdout, _, err = runCLI(t, nil, "--base-url", base, "publish", "customers")
	gt.NoError(t, err).Required()
	gt.String(t, string(stdout)).Contains("| Amy Stone |")

	dir := t.TempDir()
	res := dataMap(t, mustRun(t, nil, "--base-url", base, "publish", "customers", "--to", dir))
	gt.Array(t, res["written"].([]any)).Length(2)
}
