package pickup

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Request and route ids embed wall-clock millis plus a short random
// suffix. They are identifiers, not seeds; reproducibility comes from
// the request-content seed instead.

func newRequestID(now time.Time) string {
	return fmt.Sprintf("REQ-%d-%s", now.UnixMilli(), idSuffix())
}

func newRouteID(now time.Time) string {
	return fmt.Sprintf("ROUTE-%d-%s", now.UnixMilli(), idSuffix())
}

func idSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:7]
}
