package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/circusagent/internal/domain"
	"github.com/alexanderramin/circusagent/internal/enrichment"
	"github.com/alexanderramin/circusagent/internal/outreach"
	"github.com/alexanderramin/circusagent/internal/repository"
	"github.com/alexanderramin/circusagent/internal/service"
	"github.com/alexanderramin/circusagent/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	app    *App
	gw     *testutil.FakeGateway
	mailer *testutil.FakeMailer
}

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)

	festRepo := repository.NewSQLiteFestivalRepo(database)
	appRepo := repository.NewSQLiteApplicationRepo(database)

	gw := &testutil.FakeGateway{}
	mailer := &testutil.FakeMailer{}
	clock := func() time.Time { return testutil.FixedNow }

	pipeline := enrichment.NewPipeline(gw, enrichment.WithClock(clock))
	ledger := outreach.NewLedger(uow, festRepo, appRepo,
		outreach.WithMailer(mailer), outreach.WithClock(clock))
	composer := outreach.NewComposer(gw, &enrichment.PromptBuilder{Now: clock},
		enrichment.Persona{Name: "Alex", Company: "Cirque Volant", Show: "Duo Aérien"}, nil)

	return &testEnv{
		app: &App{
			Festivals:         service.NewFestivalService(festRepo),
			Enrich:            service.NewEnrichService(festRepo, uow, pipeline, nil),
			Import:            service.NewImportService(uow, nil),
			Applications:      service.NewApplicationService(ledger, composer, festRepo, appRepo),
			EnrichConcurrency: 2,
			Now:               clock,
		},
		gw:     gw,
		mailer: mailer,
	}
}

func seedFestival(t *testing.T, app *App, name string, opts ...testutil.FestivalOption) *domain.Festival {
	t.Helper()
	f := testutil.NewTestFestival(name, opts...)
	require.NoError(t, app.Festivals.Create(context.Background(), f))
	return f
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// --- festival ---

func TestFestivalAddListShow(t *testing.T) {
	env := testApp(t)

	out, err := executeCmd(t, env.app, "festival", "add",
		"--name", "Namur en Mai", "--country", "Belgium", "--town", "Namur",
		"--type", "street", "--app-type", "email", "--email", "info@namurenmai.be",
		"--start", "2026-05-14", "--end", "2026-05-17")
	require.NoError(t, err)
	assert.Contains(t, out, "Added festival Namur En Mai")

	out, err = executeCmd(t, env.app, "festival", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Namur En Mai")
	assert.Contains(t, out, "Namur, Belgium")

	list, err := env.app.Festivals.List(context.Background(), repository.FestivalFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.ApplicationEmail, list[0].ApplicationType)

	out, err = executeCmd(t, env.app, "festival", "show", list[0].ID[:8])
	require.NoError(t, err)
	assert.Contains(t, out, "info@namurenmai.be")
	assert.Contains(t, out, "2026-05-14 → 2026-05-17")
}

func TestFestivalAdd_RejectsUnknownType(t *testing.T) {
	env := testApp(t)

	_, err := executeCmd(t, env.app, "festival", "add", "--name", "X", "--type", "rodeo")
	assert.Error(t, err)
}

func TestFestivalAdd_RequiresName(t *testing.T) {
	env := testApp(t)

	_, err := executeCmd(t, env.app, "festival", "add", "--country", "France")
	assert.Error(t, err)
}

func TestFestivalList_Empty(t *testing.T) {
	env := testApp(t)

	out, err := executeCmd(t, env.app, "festival", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No festivals found.")
}

func TestFestivalUpdate_OnlyChangedFlags(t *testing.T) {
	env := testApp(t)
	f := seedFestival(t, env.app, "Fest", testutil.WithCountry("France"), testutil.WithTown("Lyon"))

	_, err := executeCmd(t, env.app, "festival", "update", f.ID, "--town", "Aurillac")
	require.NoError(t, err)

	got, err := env.app.Festivals.GetByID(context.Background(), f.ID)
	require.NoError(t, err)
	assert.Equal(t, "Aurillac", got.Town)
	assert.Equal(t, "France", got.Country)
}

func TestFestivalRemove(t *testing.T) {
	env := testApp(t)
	f := seedFestival(t, env.app, "Gone")

	out, err := executeCmd(t, env.app, "festival", "remove", f.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed festival Gone")

	_, err = env.app.Festivals.GetByID(context.Background(), f.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestFestivalImport(t *testing.T) {
	env := testApp(t)
	path := filepath.Join(t.TempDir(), "festivals.csv")
	csv := "NAME;COUNTRY;TOWN;WEBSITE;EMAIL;CONTACT PERSON;START DATE;END DATE;EVENT DATE;COMMENT;APPLIED 2025\n" +
		"Namur en Mai;Belgium;Namur;;info@namurenmai.be;;2026-05-14;2026-05-17;;;1\n" +
		";France;Aurillac;;;;;;;no name;\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	out, err := executeCmd(t, env.app, "festival", "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 festival(s), skipped 1 row(s)")
	assert.Contains(t, out, "skipped")
	assert.Contains(t, out, "Recorded 1 past application(s) from APPLIED columns")
}

func TestFestivalImport_MissingFile(t *testing.T) {
	env := testApp(t)

	_, err := executeCmd(t, env.app, "festival", "import", filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestFestivalEnrich_One(t *testing.T) {
	env := testApp(t)
	env.gw.ChatText = `{"start_date":"2026-07-12","end_date":"2026-07-15","application_type":"FORM"}`
	f := seedFestival(t, env.app, "Fest")

	out, err := executeCmd(t, env.app, "festival", "enrich", f.ID[:8])
	require.NoError(t, err)
	assert.Contains(t, out, "enriched")
	assert.Contains(t, out, "start_date")

	got, err := env.app.Festivals.GetByID(context.Background(), f.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-07-12", got.StartDate)
	assert.Equal(t, domain.ApplicationForm, got.ApplicationType)
}

func TestFestivalEnrich_All(t *testing.T) {
	env := testApp(t)
	env.gw.ChatText = `{"start_date":"2026-07-12","end_date":"2026-07-15"}`
	seedFestival(t, env.app, "One")
	seedFestival(t, env.app, "Two")

	out, err := executeCmd(t, env.app, "festival", "enrich", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "Enriched 2 festival(s), 2 saved")
	assert.Equal(t, 2, env.gw.ChatCount())
}

func TestFestivalEnrich_RequiresTarget(t *testing.T) {
	env := testApp(t)

	_, err := executeCmd(t, env.app, "festival", "enrich")
	assert.Error(t, err)

	f := seedFestival(t, env.app, "Fest")
	_, err = executeCmd(t, env.app, "festival", "enrich", f.ID, "--all")
	assert.Error(t, err)
}

// --- application ---

func TestApplicationDraft(t *testing.T) {
	env := testApp(t)
	env.gw.ChatText = "Dear team,\n\nWe would love to bring our duo to your festival."
	f := seedFestival(t, env.app, "Fest", testutil.WithContactEmail("hello@fest.example"))

	out, err := executeCmd(t, env.app, "application", "draft", f.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "We would love to bring our duo")
}

func TestApplicationDraft_RequiresFestivalWhenNotInteractive(t *testing.T) {
	env := testApp(t)

	_, err := executeCmd(t, env.app, "application", "draft")
	assert.Error(t, err)
}

func TestApplicationSubmitAndSend(t *testing.T) {
	env := testApp(t)
	f := seedFestival(t, env.app, "Fest",
		testutil.WithContactEmail("hello@fest.example"),
		testutil.WithApplicationType(domain.ApplicationEmail))

	out, err := executeCmd(t, env.app, "application", "submit", f.ID,
		"--subject", "Duo for Fest 2026", "--body", "Hello!")
	require.NoError(t, err)
	assert.Contains(t, out, "cycle 2026")

	apps, err := env.app.Applications.List(context.Background(), repository.ApplicationFilter{FestivalID: f.ID})
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, domain.StatusDraft, apps[0].Status)

	_, err = executeCmd(t, env.app, "application", "send", apps[0].ID)
	assert.Error(t, err, "non-interactive send needs --yes")
	assert.Empty(t, env.mailer.Sent)

	out, err = executeCmd(t, env.app, "application", "send", apps[0].ID, "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "applied")
	require.Len(t, env.mailer.Sent, 1)
	assert.Equal(t, "Duo for Fest 2026", env.mailer.Sent[0].Subject)
}

func TestApplicationSubmit_Duplicate(t *testing.T) {
	env := testApp(t)
	f := seedFestival(t, env.app, "Fest")

	_, err := executeCmd(t, env.app, "application", "submit", f.ID, "--subject", "One")
	require.NoError(t, err)

	_, err = executeCmd(t, env.app, "application", "submit", f.ID, "--subject", "Two")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already has an application for 2026")
}

func TestApplicationSubmit_WithDraft(t *testing.T) {
	env := testApp(t)
	env.gw.ChatText = "Dear team,\n\nComposed body."
	f := seedFestival(t, env.app, "Fest")

	_, err := executeCmd(t, env.app, "application", "submit", f.ID, "--draft")
	require.NoError(t, err)

	apps, err := env.app.Applications.List(context.Background(), repository.ApplicationFilter{})
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Contains(t, apps[0].Body, "Composed body.")
	assert.Contains(t, apps[0].Subject, "Fest")
}

func TestApplicationSubmit_DraftAndBodyExclusive(t *testing.T) {
	env := testApp(t)
	f := seedFestival(t, env.app, "Fest")

	_, err := executeCmd(t, env.app, "application", "submit", f.ID, "--draft", "--body", "x")
	assert.Error(t, err)
}

func TestApplicationConfirmAndStatus(t *testing.T) {
	env := testApp(t)
	f := seedFestival(t, env.app, "Fest", testutil.WithApplicationType(domain.ApplicationForm))

	_, err := executeCmd(t, env.app, "application", "submit", f.ID, "--subject", "Form entry")
	require.NoError(t, err)
	apps, err := env.app.Applications.List(context.Background(), repository.ApplicationFilter{})
	require.NoError(t, err)
	require.Len(t, apps, 1)
	id := apps[0].ID

	out, err := executeCmd(t, env.app, "application", "confirm", id[:8])
	require.NoError(t, err)
	assert.Contains(t, out, "applied")

	out, err = executeCmd(t, env.app, "application", "status", id, "in discussion",
		"--answer-date", "2026-03-20", "--comment", "they want a video")
	require.NoError(t, err)
	assert.Contains(t, out, "in discussion")

	got, err := env.app.Applications.Resolve(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInDiscussion, got.Status)
	require.NotNil(t, got.AnswerDate)
	assert.Equal(t, "2026-03-20", got.AnswerDate.Format(domain.DateLayout))
	assert.Contains(t, got.Comments, "they want a video")

	out, err = executeCmd(t, env.app, "application", "show", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Fest")
	assert.Contains(t, out, "they want a video")
}

func TestApplicationStatus_UnknownStatus(t *testing.T) {
	env := testApp(t)

	_, err := executeCmd(t, env.app, "application", "status", "abcdef12", "maybe")
	assert.Error(t, err)
}

func TestApplicationList(t *testing.T) {
	env := testApp(t)
	a := seedFestival(t, env.app, "Alpha Fest")
	b := seedFestival(t, env.app, "Beta Fest")

	_, err := executeCmd(t, env.app, "application", "submit", a.ID, "--subject", "A")
	require.NoError(t, err)
	_, err = executeCmd(t, env.app, "application", "submit", b.ID, "--subject", "B")
	require.NoError(t, err)

	out, err := executeCmd(t, env.app, "application", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Alpha Fest")
	assert.Contains(t, out, "Beta Fest")

	out, err = executeCmd(t, env.app, "application", "list", "--festival", a.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Alpha Fest")
	assert.NotContains(t, out, "Beta Fest")

	out, err = executeCmd(t, env.app, "application", "list", "--cycle", "2025")
	require.NoError(t, err)
	assert.Contains(t, out, "No applications found.")
}
