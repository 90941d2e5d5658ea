package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/swiss-tournament/metrics"
	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/repositories"
	"github.com/Dosada05/swiss-tournament/storage"
)

const (
	xlsxContentType     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	standingsSheetName  = "Standings"
	exportConcurrency   = 4
	fallbackExportTitle = "tournament"
)

var standingsHeader = []interface{}{"Rank", "Player ID", "Name", "Wins", "Ties", "Losses", "Matches", "Points", "Bye"}

// ExportResult describes one uploaded standings workbook.
type ExportResult struct {
	TournamentID int    `json:"tournament_id"`
	Key          string `json:"key"`
	URL          string `json:"url"`
}

type ExportService interface {
	ExportStandings(ctx context.Context, tournamentID int) (*ExportResult, error)
	// ExportAll exports every tournament concurrently and stops at the first failure.
	ExportAll(ctx context.Context) ([]ExportResult, error)
}

type exportService struct {
	store     *repositories.Store
	standings StandingsService
	uploader  storage.FileUploader
	metrics   *metrics.Metrics
	logger    *slog.Logger
	newKey    func(t *models.Tournament) string

	mu sync.Mutex
	// latest is the most recent object key per tournament; it is removed
	// once a newer export has been uploaded.
	latest map[int]string
}

// NewExportService returns a service that fails with ErrExportDisabled when
// uploader is nil.
func NewExportService(store *repositories.Store, standings StandingsService, uploader storage.FileUploader, m *metrics.Metrics, logger *slog.Logger) ExportService {
	return &exportService{
		store:     store,
		standings: standings,
		uploader:  uploader,
		metrics:   m,
		logger:    componentLogger(logger, "export_service"),
		newKey:    standingsObjectKey,
		latest:    make(map[int]string),
	}
}

func standingsObjectKey(t *models.Tournament) string {
	name := slug.Make(t.Title())
	if name == "" {
		name = fallbackExportTitle
	}
	return fmt.Sprintf("standings/%s-%d/%s.xlsx", name, t.ID, uuid.NewString())
}

func (s *exportService) ExportStandings(ctx context.Context, tournamentID int) (*ExportResult, error) {
	if s.uploader == nil {
		return nil, ErrExportDisabled
	}

	result, err := s.exportOne(ctx, tournamentID)
	if err != nil {
		s.metrics.Export(metrics.ExportFailed)
		return nil, err
	}
	s.metrics.Export(metrics.ExportSucceeded)
	return result, nil
}

func (s *exportService) exportOne(ctx context.Context, tournamentID int) (*ExportResult, error) {
	tournament, err := s.store.Tournaments.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	standings, err := s.standings.Standings(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	f, err := renderStandings(standings)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write standings workbook: %w", err)
	}

	key := s.newKey(tournament)
	uploaded, err := s.uploader.Upload(ctx, key, xlsxContentType, buf)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "standings exported",
		slog.Int("tournament_id", tournamentID),
		slog.String("key", uploaded.Key),
	)
	s.replacePrevious(ctx, tournamentID, uploaded.Key)
	return &ExportResult{TournamentID: tournamentID, Key: uploaded.Key, URL: uploaded.Location}, nil
}

// replacePrevious records key as the tournament's latest export and deletes
// the object it supersedes. A failed delete only leaves a stale object behind.
func (s *exportService) replacePrevious(ctx context.Context, tournamentID int, key string) {
	s.mu.Lock()
	previous := s.latest[tournamentID]
	s.latest[tournamentID] = key
	s.mu.Unlock()

	if previous == "" || previous == key {
		return
	}
	if err := s.uploader.Delete(ctx, previous); err != nil {
		s.logger.WarnContext(ctx, "failed to delete superseded export",
			slog.Int("tournament_id", tournamentID),
			slog.String("key", previous),
			slog.Any("error", err),
		)
	}
}

func renderStandings(standings []models.Standing) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", standingsSheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name standings sheet: %w", err)
	}
	if err := f.SetSheetRow(standingsSheetName, "A1", &standingsHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write standings header: %w", err)
	}

	for i, st := range standings {
		row := []interface{}{i + 1, st.PlayerID, st.Name, st.Wins, st.Ties, st.Losses(), st.Matches, st.Points, st.Bye}
		if err := f.SetSheetRow(standingsSheetName, "A"+strconv.Itoa(i+2), &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write standings row %d: %w", i+1, err)
		}
	}
	return f, nil
}

func (s *exportService) ExportAll(ctx context.Context) ([]ExportResult, error) {
	if s.uploader == nil {
		return nil, ErrExportDisabled
	}

	tournaments, err := s.store.Tournaments.List(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]ExportResult, len(tournaments))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(exportConcurrency)
	for i, t := range tournaments {
		g.Go(func() error {
			res, err := s.ExportStandings(gctx, t.ID)
			if err != nil {
				return fmt.Errorf("export tournament %d: %w", t.ID, err)
			}
			results[i] = *res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
