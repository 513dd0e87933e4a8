package runtime

import "time"

// Clock abstracts time for deadline supervision so tests can inject overruns.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
