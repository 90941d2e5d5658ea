package services

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/repositories"
	"github.com/Dosada05/swiss-tournament/repositories/memory"
	"github.com/Dosada05/swiss-tournament/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type publishedEvent struct {
	tournamentID int
	eventType    string
	payload      interface{}
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (n *recordingNotifier) Publish(tournamentID int, eventType string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, publishedEvent{tournamentID: tournamentID, eventType: eventType, payload: payload})
}

func (n *recordingNotifier) all() []publishedEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]publishedEvent(nil), n.events...)
}

type memoryUploader struct {
	mu      sync.Mutex
	objects   map[string][]byte
	err       error
	deleteErr error
	deleted   []string
}

func newMemoryUploader() *memoryUploader {
	return &memoryUploader{objects: make(map[string][]byte)}
}

func (u *memoryUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	if u.err != nil {
		return nil, u.err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return nil, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.objects[key] = buf.Bytes()
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *memoryUploader) Delete(ctx context.Context, key string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.deleted = append(u.deleted, key)
	if u.deleteErr != nil {
		return u.deleteErr
	}
	delete(u.objects, key)
	return nil
}

func (u *memoryUploader) count() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.objects)
}

func (u *memoryUploader) GetPublicURL(key string) string {
	return "https://cdn.test/" + key
}

// fixture is a tournament with enrolled players on a fresh memory store.
type fixture struct {
	ctx        context.Context
	store      *repositories.Store
	tournament *models.Tournament
	players    []*models.Player
}

func newFixture(t *testing.T, playerCount int) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	desc := gofakeit.Company() + " Swiss Open"
	tournament := &models.Tournament{Description: &desc}
	require.NoError(t, store.Tournaments.Create(ctx, tournament))

	f := &fixture{ctx: ctx, store: store, tournament: tournament}
	for i := 0; i < playerCount; i++ {
		p := &models.Player{Name: gofakeit.Name()}
		require.NoError(t, store.Players.Create(ctx, p))
		require.NoError(t, store.Participants.Create(ctx, &models.Participant{TournamentID: tournament.ID, PlayerID: p.ID}))
		f.players = append(f.players, p)
	}
	return f
}

func (f *fixture) id(i int) int {
	return f.players[i].ID
}
