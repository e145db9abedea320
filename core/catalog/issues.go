// Package catalog - Issue catalog accessor
// Holds the read-only list of issues for one device type and its load state.
package catalog

import (
	"context"
	"sync"

	"repairdesk/core/types"
	"repairdesk/internal/errors"
)

// IssueSource lists the issues valid for a device type
type IssueSource interface {
	ListIssues(ctx context.Context, deviceType string) ([]types.Issue, error)
}

// State is the load state of a catalog
type State int

const (
	// StateIdle - nothing requested yet
	StateIdle State = iota
	// StateLoading - a load is in flight
	StateLoading
	// StateLoaded - at least one issue available
	StateLoaded
	// StateEmpty - loaded, zero issues for the device type
	StateEmpty
	// StateFailed - the last load failed
	StateFailed
)

// String returns string representation
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateEmpty:
		return "empty"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IssueCatalog is the issue list for one device type
type IssueCatalog struct {
	source IssueSource

	mu         sync.RWMutex
	deviceType string
	state      State
	err        error
	issues     []types.Issue
	byID       map[string]int
}

// NewIssueCatalog creates an idle catalog backed by source
func NewIssueCatalog(source IssueSource) *IssueCatalog {
	return &IssueCatalog{
		source: source,
		byID:   make(map[string]int),
	}
}

// FromIssues builds an already-loaded catalog, mostly for tests and quotes
// computed from a fixed issue list.
func FromIssues(deviceType string, issues []types.Issue) *IssueCatalog {
	c := NewIssueCatalog(nil)
	c.deviceType = deviceType
	c.install(issues)
	return c
}

// Load fetches the issues for deviceType, replacing any previous content.
// On failure the catalog is left empty in StateFailed and the error is returned.
func (c *IssueCatalog) Load(ctx context.Context, deviceType string) error {
	if c.source == nil {
		return errors.Internal("issue catalog has no source", nil)
	}

	c.mu.Lock()
	c.deviceType = deviceType
	c.state = StateLoading
	c.err = nil
	c.issues = nil
	c.byID = make(map[string]int)
	c.mu.Unlock()

	issues, err := c.source.ListIssues(ctx, deviceType)
	if err != nil {
		wrapped := errors.Wrapf(errors.TypeNetwork, err, "loading issues for %q", deviceType)
		c.mu.Lock()
		c.state = StateFailed
		c.err = wrapped
		c.mu.Unlock()
		return wrapped
	}

	c.install(issues)
	return nil
}

func (c *IssueCatalog) install(issues []types.Issue) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.issues = make([]types.Issue, 0, len(issues))
	c.byID = make(map[string]int, len(issues))
	for _, issue := range issues {
		id := types.NormalizeID(issue.ID)
		if id == "" {
			continue
		}
		if _, dup := c.byID[id]; dup {
			continue
		}
		issue.ID = id
		c.byID[id] = len(c.issues)
		c.issues = append(c.issues, issue)
	}

	c.err = nil
	if len(c.issues) == 0 {
		c.state = StateEmpty
	} else {
		c.state = StateLoaded
	}
}

// State returns the current load state
func (c *IssueCatalog) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Err returns the last load error, if any
func (c *IssueCatalog) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Ready reports whether the catalog finished loading, with or without issues
func (c *IssueCatalog) Ready() bool {
	s := c.State()
	return s == StateLoaded || s == StateEmpty
}

// DeviceType returns the device type the catalog was loaded for
func (c *IssueCatalog) DeviceType() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.deviceType
}

// Lookup finds an issue by id in any of its string or numeric forms
func (c *IssueCatalog) Lookup(id interface{}) (types.Issue, bool) {
	if c == nil {
		return types.Issue{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	idx, ok := c.byID[types.NormalizeID(id)]
	if !ok {
		return types.Issue{}, false
	}
	return c.issues[idx], true
}

// Issues returns a copy of the issues in backend order
func (c *IssueCatalog) Issues() []types.Issue {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]types.Issue, len(c.issues))
	copy(out, c.issues)
	return out
}

// Len returns the number of issues
func (c *IssueCatalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.issues)
}
