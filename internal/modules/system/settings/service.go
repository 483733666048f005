package settings

import (
	"errors"
	"strconv"
	"sync"

	"github.com/lensfeed/core/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const thresholdKey = "spam_threshold"

// ErrInvalidThreshold is returned for thresholds outside (0,1].
var ErrInvalidThreshold = errors.New("threshold must be in (0,1]")

// ValidateThreshold checks the (0,1] range contract.
func ValidateThreshold(v float64) error {
	if v <= 0 || v > 1 {
		return ErrInvalidThreshold
	}
	return nil
}

// Service manages the process-wide moderation threshold: an options row for
// persistence, an RWMutex-guarded cache for the read-mostly decision path.
// Every classification reads the value at decision time, so an update
// affects only comments created after it; already-decided comments are
// never reclassified.
type Service struct {
	db  *gorm.DB
	def float64

	mu     sync.RWMutex
	cached *float64
}

// NewService creates a threshold service. def seeds the persisted value on
// first boot and must itself be in (0,1].
func NewService(db *gorm.DB, def float64) *Service {
	return &Service{db: db, def: def}
}

// Threshold returns the current threshold, loading from the database on
// first use.
func (s *Service) Threshold() (float64, error) {
	s.mu.RLock()
	if s.cached != nil {
		v := *s.cached
		s.mu.RUnlock()
		return v, nil
	}
	s.mu.RUnlock()

	return s.load()
}

func (s *Service) load() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached != nil {
		return *s.cached, nil
	}

	var opt models.OptionModel
	err := s.db.Where("name = ?", thresholdKey).First(&opt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := s.persist(s.def); err != nil {
			return 0, err
		}
		v := s.def
		s.cached = &v
		return v, nil
	}
	if err != nil {
		return 0, err
	}

	v, err := strconv.ParseFloat(opt.Value, 64)
	if err != nil || ValidateThreshold(v) != nil {
		// A mangled row must not poison moderation; fall back to default.
		v = s.def
	}
	s.cached = &v
	return v, nil
}

// SetThreshold validates, persists, and publishes a new threshold. The cache
// is updated only after the write is confirmed, so a failed persist never
// leaves readers observing an unapplied value.
func (s *Service) SetThreshold(v float64) error {
	if err := ValidateThreshold(v); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist(v); err != nil {
		return err
	}
	s.cached = &v
	return nil
}

func (s *Service) persist(v float64) error {
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&models.OptionModel{
		Name:  thresholdKey,
		Value: strconv.FormatFloat(v, 'f', -1, 64),
	}).Error
}
