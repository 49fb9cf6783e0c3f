package career

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/deep-stoker/internal/reactor"
)

// Repository persists profiles.
type Repository interface {
	LoadProfile(player string) (Profile, error) // ErrNotFound for unknown players
	SaveProfile(p Profile) error
}

// ShiftRecorder stores finished shifts.
type ShiftRecorder interface {
	RecordShift(rec ShiftRecord) error
}

// ShiftRecord is the archived outcome of one shift.
type ShiftRecord struct {
	ID          string        `json:"id"`
	Player      string        `json:"player"`
	ShiftType   string        `json:"shift_type"`
	ReactorType string        `json:"reactor_type"`
	Success     bool          `json:"success"`
	Cause       reactor.Cause `json:"cause"`
	Temperature float64       `json:"temperature"`
	Pressure    float64       `json:"pressure"`
	Containment float64       `json:"containment"`
	Hull        float64       `json:"hull"`
	Survival    float64       `json:"survival"`
	Reward      int           `json:"reward"`
	Credited    int           `json:"credited"`
	Promoted    bool          `json:"promoted"`
	CreatedAt   time.Time     `json:"created_at"`
}

// Service applies career rules on top of a repository. Operations on the
// same service are serialized, so concurrent SSH sessions of one player
// cannot lose updates.
type Service struct {
	mu     sync.Mutex
	repo   Repository
	shifts ShiftRecorder
	logger *log.Logger
}

// NewService wires a service. shifts may be nil to skip archiving.
func NewService(repo Repository, shifts ShiftRecorder, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Service{repo: repo, shifts: shifts, logger: logger}
}

// Profile loads a player's career, creating a fresh one on first use.
func (s *Service) Profile(player string) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(player)
}

func (s *Service) load(player string) (Profile, error) {
	if player == "" {
		player = DefaultPlayer
	}
	p, err := s.repo.LoadProfile(player)
	if errors.Is(err, ErrNotFound) {
		return NewProfile(player), nil
	}
	if err != nil {
		return Profile{}, fmt.Errorf("career: load %s: %w", player, err)
	}
	p.Normalize()
	return p, nil
}

// Buy purchases an upgrade and saves the profile.
func (s *Service) Buy(player, upgrade string) (Profile, Upgrade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(player)
	if err != nil {
		return Profile{}, Upgrade{}, err
	}
	u, err := Purchase(&p, upgrade)
	if err != nil {
		return p, u, err
	}
	if err := s.repo.SaveProfile(p); err != nil {
		return p, u, fmt.Errorf("career: save %s: %w", p.Player, err)
	}

	s.logger.Info("upgrade purchased", "player", p.Player, "upgrade", u.Name, "cost", u.Cost, "credits", p.DepthCredits)
	return p, u, nil
}

// Repair restores the player's hull and saves the profile.
func (s *Service) Repair(player string) (Profile, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(player)
	if err != nil {
		return Profile{}, 0, err
	}
	cost, err := Repair(&p)
	if err != nil {
		return p, 0, err
	}
	if cost == 0 {
		return p, 0, nil
	}
	if err := s.repo.SaveProfile(p); err != nil {
		return p, 0, fmt.Errorf("career: save %s: %w", p.Player, err)
	}

	s.logger.Info("hull repaired", "player", p.Player, "cost", cost)
	return p, cost, nil
}

// CompleteShift settles a finished shift, saves the profile and archives
// the shift record.
func (s *Service) CompleteShift(player, shiftType string, res reactor.TerminalResult) (Profile, Settlement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(player)
	if err != nil {
		return Profile{}, Settlement{}, err
	}

	reward := reactor.ComputeReward(res.Snapshot)
	st := Settle(&p, res, reward)

	if err := s.repo.SaveProfile(p); err != nil {
		return p, st, fmt.Errorf("career: save %s: %w", p.Player, err)
	}

	if s.shifts != nil {
		snap := res.Snapshot
		rec := ShiftRecord{
			ID:          snap.SessionID,
			Player:      p.Player,
			ShiftType:   shiftType,
			ReactorType: snap.ReactorType,
			Success:     res.Success,
			Cause:       res.Cause,
			Temperature: snap.Temperature,
			Pressure:    snap.Pressure,
			Containment: snap.Containment,
			Hull:        snap.HullIntegrity,
			Survival:    snap.SurvivalTime,
			Reward:      reward.Total,
			Credited:    st.Credited,
			Promoted:    st.Promoted,
		}
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		if err := s.shifts.RecordShift(rec); err != nil {
			return p, st, fmt.Errorf("career: record shift: %w", err)
		}
	}

	s.logger.Info("shift settled",
		"player", p.Player,
		"success", res.Success,
		"cause", res.Cause,
		"credited", st.Credited,
		"rank", p.Rank,
		"promoted", st.Promoted,
	)
	return p, st, nil
}
