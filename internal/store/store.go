// Package store persists recorded matches in SQLite and reads them back as
// renderable frame sequences.
package store

import (
	"fmt"
	"sort"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tacmap/tacmap/internal/geo"
	"github.com/tacmap/tacmap/pkg/core"
)

// Manager handles the match database connection and operations.
type Manager struct {
	DB     *gorm.DB
	Path   string
	Logger zerolog.Logger
}

// NewManager creates a manager for the SQLite file at path. An empty path
// selects an in-memory database.
func NewManager(path string, log zerolog.Logger) *Manager {
	return &Manager{
		Path:   path,
		Logger: log,
	}
}

// Connect opens the database and applies the session PRAGMAs.
func (m *Manager) Connect() error {
	dsn := m.Path
	if dsn == "" {
		dsn = "file::memory:?cache=shared"
		m.Logger.Info().Msg("Using in-memory SQLite DB")
	} else {
		m.Logger.Info().Str("path", dsn).Msg("Using SQLite DB")
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		CreateBatchSize:        2000,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to open SQLite DB: %w", err)
	}

	pragmas := []string{
		"PRAGMA user_version = 1;",
		"PRAGMA journal_mode = MEMORY;",
		"PRAGMA synchronous = OFF;",
		"PRAGMA cache_size = -32000;",
		"PRAGMA temp_store = MEMORY;",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return fmt.Errorf("error setting PRAGMA: %w", err)
		}
	}

	m.DB = db
	return nil
}

// Setup migrates the schema.
func (m *Manager) Setup() error {
	m.Logger.Info().Msg("Migrating schema")
	if err := m.DB.AutoMigrate(DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (m *Manager) Close() error {
	if m.DB == nil {
		return nil
	}
	sqlDB, err := m.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	return sqlDB.Close()
}

// SaveMatch inserts a match and returns its id.
func (m *Manager) SaveMatch(match *Match) error {
	if err := m.DB.Create(match).Error; err != nil {
		return fmt.Errorf("failed to save match: %w", err)
	}
	return nil
}

// SaveStates batch-inserts player states.
func (m *Manager) SaveStates(states []PlayerState) error {
	if len(states) == 0 {
		return nil
	}
	if err := m.DB.Create(&states).Error; err != nil {
		return fmt.Errorf("failed to save player states: %w", err)
	}
	return nil
}

// GetMatch loads a match header by id.
func (m *Manager) GetMatch(matchID uint) (*Match, error) {
	var match Match
	if err := m.DB.First(&match, matchID).Error; err != nil {
		return nil, fmt.Errorf("failed to load match %d: %w", matchID, err)
	}
	return &match, nil
}

// Frames loads every player state of a match and groups them by tick into
// an ordered frame sequence ready for rendering.
func (m *Manager) Frames(matchID uint) ([]core.Frame, error) {
	var states []PlayerState
	err := m.DB.
		Where("match_id = ?", matchID).
		Order("tick ASC, player_name ASC").
		Find(&states).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load states for match %d: %w", matchID, err)
	}

	byTick := make(map[uint]*core.Frame)
	ticks := make([]uint, 0)
	for _, st := range states {
		f, ok := byTick[st.Tick]
		if !ok {
			f = &core.Frame{}
			byTick[st.Tick] = f
			ticks = append(ticks, st.Tick)
		}

		health := st.Health
		armor := st.Armor
		f.Points = append(f.Points, geo.PositionFromPoint(st.Position))
		f.Annotations = append(f.Annotations, core.Annotation{
			Marker: core.DefaultMarker,
			Color:  SideColor(st.Side),
			Size:   core.DefaultSize,
			Health: &health,
			Armor:  &armor,
			Facing: &core.Facing{Pitch: st.Pitch, Yaw: st.Yaw},
			Label:  st.PlayerName,
		})
	}

	sort.Slice(ticks, func(i, j int) bool { return ticks[i] < ticks[j] })

	frames := make([]core.Frame, 0, len(ticks))
	for _, tick := range ticks {
		frames = append(frames, *byTick[tick])
	}

	m.Logger.Debug().
		Uint("matchID", matchID).
		Int("states", len(states)).
		Int("frames", len(frames)).
		Msg("Loaded frame sequence")

	return frames, nil
}

// SideColor maps a recorded side to its marker color.
func SideColor(side string) string {
	switch side {
	case "ct":
		return "skyblue"
	case "t":
		return "orange"
	}
	return core.DefaultColor
}
