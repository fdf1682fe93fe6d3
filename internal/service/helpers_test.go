package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/alexanderramin/circusagent/internal/domain"
	"github.com/alexanderramin/circusagent/internal/repository"
	"github.com/alexanderramin/circusagent/internal/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func setupRepos(t *testing.T) (*sql.DB, *repository.SQLiteFestivalRepo, *repository.SQLiteApplicationRepo) {
	t.Helper()
	database := testutil.NewTestDB(t)
	return database, repository.NewSQLiteFestivalRepo(database), repository.NewSQLiteApplicationRepo(database)
}

func seedFestival(t *testing.T, repo repository.FestivalRepo, name string, opts ...testutil.FestivalOption) *domain.Festival {
	t.Helper()
	f := testutil.NewTestFestival(name, opts...)
	require.NoError(t, repo.Create(context.Background(), f))
	return f
}

// recordingObserver keeps every use-case event.
type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}
