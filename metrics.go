package bobbin

import (
	"time"
)

// CreateHook observes every CreateBean call that actually builds a bean.
type CreateHook func(name string, duration time.Duration, err error)

// RegisterHook observes every successful registration.
type RegisterHook func(name string)
