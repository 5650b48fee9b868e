package enrollment

import "time"

// SetNowFunc replaces the clock used by the service, until reset is called.
func SetNowFunc(fn func() time.Time) (reset func()) {
	nowFunc = fn
	return func() { nowFunc = time.Now }
}
