// Package snapshot samples the attributes of individual processes and
// carries the CPU accounting built on consecutive samples.
package snapshot

import (
	"fmt"
	"os/user"
	"strconv"
	"time"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"

	"procsnap/memoize"
	"procsnap/procargs"
	"procsnap/procinfo"
	"procsnap/sysquery"
)

// Identity resolves numeric user and group ids to names
type Identity interface {
	UserName(uid uint32) (string, bool)
	GroupName(gid uint32) (string, bool)
}

// systemIdentity resolves ids through the local account database
type systemIdentity struct{}

func (systemIdentity) UserName(uid uint32) (string, bool) {
	u, err := user.LookupId(strconv.FormatUint(uint64(uid), 10))
	if err != nil {
		return "", false
	}
	return u.Username, true
}

func (systemIdentity) GroupName(gid uint32) (string, bool) {
	g, err := user.LookupGroupId(strconv.FormatUint(uint64(gid), 10))
	if err != nil {
		return "", false
	}
	return g.Name, true
}

// Source creates snapshots over one gateway. The kernel's argument block
// capacity is queried once per Source and shared by every snapshot it
// creates.
type Source struct {
	gw       sysquery.Gateway
	fetcher  *sysquery.Fetcher
	decoder  *procargs.Decoder
	clock    func() time.Time
	identity Identity
}

// Option adjusts how a Source is built
type Option func(*Source)

// WithClock substitutes the time source used for uptime derivation
func WithClock(clock func() time.Time) Option {
	return func(s *Source) {
		s.clock = clock
	}
}

// WithIdentity substitutes the user and group name resolver
func WithIdentity(id Identity) Option {
	return func(s *Source) {
		s.identity = id
	}
}

// NewSource creates a Source over the given gateway
func NewSource(gw sysquery.Gateway, opts ...Option) *Source {
	s := &Source{
		gw:       gw,
		fetcher:  sysquery.NewFetcher(gw),
		clock:    time.Now,
		identity: systemIdentity{},
	}
	for _, opt := range opts {
		opt(s)
	}

	argmax := s.fetcher.Uint32("kern.argmax", 0)
	s.decoder = procargs.NewDecoder(s.fetcher, int(argmax))
	return s
}

// Snapshot creates a snapshot of pid and populates it with one refresh.
// Construction always succeeds; when the pid cannot be sampled the
// snapshot comes back in StateInvalid with zero-value fields.
func (s *Source) Snapshot(pid procinfo.ProcessID) *Snapshot {
	p := &Snapshot{
		pid: pid,
		src: s,
		log: logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange,
			fmt.Sprintf("snapshot-%d", pid))),
	}
	p.cpu = memoize.New(p.queryCumulativeCPULoad, memoize.DefaultTTL)
	p.argsEnv = memoize.New(p.queryArgsEnv, 0)
	p.cmdline = memoize.New(p.queryCommandLine, 0)
	p.Refresh()
	return p
}
