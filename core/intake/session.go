// Package intake holds the state of one repair intake: the issue catalog of the
// chosen device type, the selected issues, their resolved tiers and the subtotal.
// Every mutation recomputes the subtotal and notifies subscribers.
package intake

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"repairdesk/core/catalog"
	"repairdesk/core/cost"
	"repairdesk/core/payload"
	"repairdesk/core/pricing"
	"repairdesk/core/selection"
	"repairdesk/core/types"
	"repairdesk/internal/config"
	"repairdesk/internal/errors"
	"repairdesk/internal/logging"
)

// Backend is everything a session needs from the repair shop backend
type Backend interface {
	catalog.IssueSource
	catalog.DeviceSource
	pricing.TierSource
	CreateRepair(ctx context.Context, req types.RepairCreate) (types.Repair, error)
	CreateClient(ctx context.Context, n types.NewClient) (types.Client, error)
}

// Options configures a Session
type Options struct {
	// RequireSettled blocks submission while tier lookups are outstanding
	RequireSettled bool

	// DefaultDescription replaces a blank breakdown description
	DefaultDescription string

	// TierTimeout bounds each tier lookup
	TierTimeout time.Duration

	// MaxConcurrency limits parallel tier lookups
	MaxConcurrency int

	// Clock overrides time.Now for the repair uid and date
	Clock func() time.Time
}

// OptionsFromConfig builds session options from the loaded configuration
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		RequireSettled:     cfg.Pricing.RequireSettled,
		DefaultDescription: cfg.Intake.DefaultDescription,
		TierTimeout:        cfg.Pricing.Timeout(),
		MaxConcurrency:     cfg.Pricing.MaxConcurrency,
	}
}

// Details are the intake fields collected besides the issues
type Details struct {
	Brand           string
	Model           string
	ClientID        *int
	NewClient       *types.NewClient
	Description     string
	Accessories     string
	UnlockCode      string
	DepositReceived bool
	ScheduledDate   *types.Date
}

// Submission is the outcome of a successful submit
type Submission struct {
	Repair   types.Repair
	Client   *types.Client
	Subtotal cost.Subtotal
	Warnings []string
}

// Session is one intake in progress. It is safe for concurrent use.
type Session struct {
	id        string
	backend   Backend
	opts      Options
	issues    *catalog.IssueCatalog
	tiers     *pricing.Snapshot
	resolver  *pricing.Resolver
	assembler *payload.Assembler
	log       *zap.Logger

	mu          sync.Mutex
	devices     *catalog.DeviceCatalog
	set         *selection.Set
	subtotal    cost.Subtotal
	subscribers map[int]func(cost.Subtotal)
	nextSub     int
	submitting  bool
	client      *types.Client
}

// NewSession creates an empty session
func NewSession(backend Backend, opts Options) *Session {
	assembler := payload.NewAssembler(opts.DefaultDescription)
	if opts.Clock != nil {
		assembler = assembler.WithClock(opts.Clock)
	}
	id := uuid.NewString()
	s := &Session{
		id:          id,
		backend:     backend,
		opts:        opts,
		issues:      catalog.NewIssueCatalog(backend),
		tiers:       pricing.NewSnapshot(),
		resolver:    pricing.NewResolver(backend, pricing.Options{Timeout: opts.TierTimeout, MaxConcurrency: opts.MaxConcurrency}),
		assembler:   assembler,
		log:         logging.Named("intake").With(zap.String("session", id)),
		set:         selection.New(),
		subscribers: make(map[int]func(cost.Subtotal)),
	}
	s.subtotal = cost.CalculateSet(s.set, s.issues, s.tiers)
	return s
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// Catalog returns the issue catalog
func (s *Session) Catalog() *catalog.IssueCatalog {
	return s.issues
}

// Tiers returns the tier snapshot
func (s *Session) Tiers() *pricing.Snapshot {
	return s.tiers
}

// LoadCatalog loads the issues of a device type.
// Switching to another device type clears the selection.
func (s *Session) LoadCatalog(ctx context.Context, deviceType string) error {
	deviceType = strings.TrimSpace(deviceType)
	if deviceType == "" {
		return errors.Input("device type is required")
	}

	if prev := s.issues.DeviceType(); prev != "" && prev != deviceType {
		s.mutate(func() {
			s.set.Clear()
			s.tiers.Reset()
		})
	}

	err := s.issues.Load(ctx, deviceType)
	if err != nil {
		s.log.Warn("issue catalog load failed", zap.String("device_type", deviceType), zap.Error(err))
	} else {
		s.log.Debug("issue catalog loaded", zap.String("device_type", deviceType), zap.Int("issues", s.issues.Len()))
	}
	s.mutate(func() {})
	return err
}

// LoadDevices fetches the device catalogs used to resolve brand and model keys
func (s *Session) LoadDevices(ctx context.Context, brand string) error {
	devices, err := catalog.LoadDeviceCatalog(ctx, s.backend, s.issues.DeviceType(), brand)
	if err != nil {
		return errors.Wrap(errors.TypeNetwork, "loading device catalog", err)
	}
	s.mu.Lock()
	s.devices = devices
	s.mu.Unlock()
	return nil
}

// Toggle selects the issue if absent and deselects it if present.
// It returns whether the issue is selected afterwards.
func (s *Session) Toggle(issueID interface{}) (bool, error) {
	issue, err := s.catalogIssue(issueID)
	if err != nil {
		return false, err
	}

	var selected bool
	s.mutate(func() {
		if s.set.Remove(issue.ID) {
			s.tiers.Forget(issue.ID)
			return
		}
		selected = s.set.Add(issue.ID, issue.Name, issue.CategoryType())
	})
	s.log.Debug("issue toggled", zap.String("issue_id", issue.ID), zap.Bool("selected", selected))
	return selected, nil
}

// Add selects an issue. Adding a selected issue is a no-op.
func (s *Session) Add(issueID interface{}) error {
	issue, err := s.catalogIssue(issueID)
	if err != nil {
		return err
	}
	s.mutate(func() {
		s.set.Add(issue.ID, issue.Name, issue.CategoryType())
	})
	return nil
}

// Remove deselects an issue and forgets its tier lookup
func (s *Session) Remove(issueID interface{}) bool {
	id := types.NormalizeID(issueID)
	var removed bool
	s.mutate(func() {
		if removed = s.set.Remove(id); removed {
			s.tiers.Forget(id)
		}
	})
	return removed
}

// SetTier records the chosen quality tier of a selected part-based issue
func (s *Session) SetTier(issueID interface{}, tierID int) error {
	id := types.NormalizeID(issueID)
	var err error
	s.mutate(func() {
		entry, ok := s.set.Get(id)
		switch {
		case !ok:
			err = errors.Newf(errors.TypeNotFound, "issue %s is not selected", id)
		case entry.CategoryType != types.CategoryPart:
			err = errors.Newf(errors.TypeInput, "issue %s is service-based and has no tiers", id)
		default:
			s.set.SetTier(id, tierID)
		}
	})
	return err
}

// SetNotes records free-text notes on a selected issue
func (s *Session) SetNotes(issueID interface{}, notes string) error {
	id := types.NormalizeID(issueID)
	var ok bool
	s.mutate(func() {
		ok = s.set.SetNotes(id, notes)
	})
	if !ok {
		return errors.Newf(errors.TypeNotFound, "issue %s is not selected", id)
	}
	return nil
}

// FetchTiers resolves the tiers of every selected part-based issue that has
// none yet, concurrently. Results for issues removed or re-added meanwhile are
// discarded. Per-issue failures are recorded in the snapshot and returned.
func (s *Session) FetchTiers(ctx context.Context) map[string]pricing.TierResult {
	s.mu.Lock()
	seqs := make(map[string]uint64)
	var ids []string
	for _, id := range s.set.PartIDs() {
		if st := s.tiers.State(id); st == pricing.TierResolved || st == pricing.TierPending {
			continue
		}
		entry, _ := s.set.Get(id)
		seqs[id] = entry.Seq()
		ids = append(ids, id)
		s.tiers.MarkPending(id)
	}
	s.mu.Unlock()

	if len(ids) == 0 {
		return nil
	}
	s.mutate(func() {})

	results := s.resolver.ResolveBatch(ctx, ids)

	s.mutate(func() {
		for id, res := range results {
			entry, ok := s.set.Get(id)
			if !ok || entry.Seq() != seqs[id] {
				s.log.Debug("discarding stale tier result", zap.String("issue_id", id))
				delete(results, id)
				continue
			}
			s.tiers.Apply(res)
		}
	})
	return results
}

// Subtotal returns the subtotal as of the last mutation
func (s *Session) Subtotal() cost.Subtotal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subtotal
}

// Entries returns a copy of the selection in display order
func (s *Session) Entries() []selection.SelectedIssue {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set.Entries()
}

// Subscribe registers fn to receive the subtotal after every mutation.
// The returned function unregisters it.
func (s *Session) Subscribe(fn func(cost.Subtotal)) func() {
	s.mu.Lock()
	key := s.nextSub
	s.nextSub++
	s.subscribers[key] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, key)
		s.mu.Unlock()
	}
}

// CanSubmit returns nil when the selection may be submitted, or an input
// error explaining what is missing.
func (s *Session) CanSubmit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canSubmitLocked()
}

func (s *Session) canSubmitLocked() error {
	if s.set.IsEmpty() {
		return errors.Input("no issue selected")
	}
	if !s.set.IsComplete() {
		return errors.Input("a quality tier must be chosen for every part-based issue").
			WithContext("issues", s.set.Incomplete())
	}
	if unpriced := s.unpricedLocked(); len(unpriced) > 0 {
		return errors.Input("the chosen quality tier could not be priced").
			WithContext("issues", unpriced)
	}
	if s.opts.RequireSettled && !s.subtotal.Settled {
		return errors.Input("tier lookups are still outstanding").
			WithContext("issues", s.subtotal.Pending)
	}
	return nil
}

// unpricedLocked lists part-based issues whose tier lookup failed or
// whose chosen tier is not among the resolved options
func (s *Session) unpricedLocked() []string {
	var ids []string
	for _, line := range s.subtotal.Lines {
		switch line.Status {
		case cost.LineFailed, cost.LineTierNotFound, cost.LineNoOptions:
			ids = append(ids, line.IssueID)
		}
	}
	return ids
}

// Submit creates the client when needed, then the repair. On success the
// selection is cleared; on failure the session is left untouched so the
// submission can be retried.
func (s *Session) Submit(ctx context.Context, d Details) (Submission, error) {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return Submission{}, errors.Input("a submission is already in progress")
	}
	if err := s.canSubmitLocked(); err != nil {
		s.mu.Unlock()
		return Submission{}, err
	}
	if d.ClientID == nil && s.client == nil && (d.NewClient == nil || !d.NewClient.Complete()) {
		s.mu.Unlock()
		return Submission{}, errors.Input("select a client or provide first name, last name and phone")
	}
	s.submitting = true
	entries := s.set.Entries()
	subtotal := s.subtotal
	devices := s.devices
	client := s.client
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.submitting = false
		s.mu.Unlock()
	}()

	if devices == nil {
		if err := s.LoadDevices(ctx, d.Brand); err != nil {
			s.log.Warn("device catalog unavailable, ids sent as null", zap.Error(err))
		} else {
			s.mu.Lock()
			devices = s.devices
			s.mu.Unlock()
		}
	}

	clientID := d.ClientID
	if clientID == nil {
		if client == nil {
			created, err := s.backend.CreateClient(ctx, *d.NewClient)
			if err != nil {
				s.log.Warn("client creation failed", zap.Error(err))
				return Submission{}, errors.Wrap(errors.TypeNetwork, "creating client", err)
			}
			client = &created
			// keep the client so a retry does not register it twice
			s.mu.Lock()
			s.client = client
			s.mu.Unlock()
		}
		id := client.ID
		clientID = &id
	}

	assembled := s.assembler.Assemble(payload.Input{
		Entries:         entries,
		Devices:         devices,
		DeviceType:      s.issues.DeviceType(),
		Brand:           d.Brand,
		Model:           d.Model,
		ClientID:        clientID,
		Description:     d.Description,
		Accessories:     d.Accessories,
		UnlockCode:      d.UnlockCode,
		DepositReceived: d.DepositReceived,
		ScheduledDate:   d.ScheduledDate,
		Price:           subtotal.Total,
	})
	for _, w := range assembled.Warnings {
		s.log.Warn("payload", zap.String("warning", w))
	}

	repair, err := s.backend.CreateRepair(ctx, assembled.Request)
	if err != nil {
		s.log.Warn("repair creation failed", zap.String("uid", assembled.Request.UID), zap.Error(err))
		return Submission{}, err
	}
	s.log.Info("repair created",
		zap.Int("repair_id", repair.ID),
		zap.String("uid", repair.UID),
		zap.String("price", assembled.Request.Price))

	s.mutate(func() {
		s.set.Clear()
		s.tiers.Reset()
		s.client = nil
	})

	out := Submission{Repair: repair, Subtotal: subtotal, Warnings: assembled.Warnings}
	if d.ClientID == nil {
		out.Client = client
	}
	return out, nil
}

// catalogIssue looks up an issue in a ready catalog
func (s *Session) catalogIssue(issueID interface{}) (types.Issue, error) {
	if !s.issues.Ready() {
		err := errors.Newf(errors.TypeInput, "issue catalog is %s", s.issues.State())
		if cause := s.issues.Err(); cause != nil {
			err.Cause = cause
		}
		return types.Issue{}, err
	}
	issue, ok := s.issues.Lookup(issueID)
	if !ok {
		return types.Issue{}, errors.Newf(errors.TypeNotFound, "issue %s is not in the %s catalog",
			types.NormalizeID(issueID), s.issues.DeviceType())
	}
	return issue, nil
}

// mutate applies fn under the lock, recomputes the subtotal and notifies subscribers
func (s *Session) mutate(fn func()) {
	s.mu.Lock()
	fn()
	s.subtotal = cost.CalculateSet(s.set, s.issues, s.tiers)
	sub := s.subtotal
	listeners := make([]func(cost.Subtotal), 0, len(s.subscribers))
	for _, l := range s.subscribers {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(sub)
	}
}
