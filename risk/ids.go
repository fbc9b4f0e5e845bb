package risk

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rustyeddy/tradejournal/dates"
	"github.com/rustyeddy/tradejournal/pkg/id"
)

// IDGenerator assigns an ID to each alert as it is raised.
type IDGenerator interface {
	AlertID(m Metrics, typ AlertType, now time.Time) string
}

// IDFunc adapts a function to IDGenerator.
type IDFunc func(m Metrics, typ AlertType, now time.Time) string

func (f IDFunc) AlertID(m Metrics, typ AlertType, now time.Time) string {
	return f(m, typ, now)
}

// ULIDs stamps each alert with a fresh ULID taken at the evaluation
// instant. IDs differ on every call.
var ULIDs IDFunc = func(_ Metrics, _ AlertType, now time.Time) string {
	return id.NewAt(now)
}

// Sequence numbers alerts "<prefix>-1", "<prefix>-2", ... in the order
// they are raised.
type Sequence struct {
	Prefix string

	mu sync.Mutex
	n  int
}

func (s *Sequence) AlertID(_ Metrics, _ AlertType, _ time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s-%d", s.Prefix, s.n)
}

var alertNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:tradejournal:risk-alert"))

// ContentHash derives a name-based UUID from the student, the rule and
// the UTC day of evaluation, so one breach keeps its ID for the whole day.
var ContentHash IDFunc = func(m Metrics, typ AlertType, now time.Time) string {
	name := m.StudentID + "|" + string(typ) + "|" + dates.ToISODate(now)
	return uuid.NewSHA1(alertNamespace, []byte(name)).String()
}
