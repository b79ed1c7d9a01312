package ports

import "time"

// Clock supplies the current time so services never read it implicitly.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
