package fix

import (
	"github.com/sirupsen/logrus"

	"github.com/alguard/alguard/internal/logging"
)

// Option configures Propose and Apply.
type Option func(*settings)

type settings struct {
	log logrus.FieldLogger
}

// WithLogger routes debug output to l.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *settings) { s.log = l }
}

func newSettings(opts []Option) settings {
	var s settings
	for _, o := range opts {
		o(&s)
	}
	s.log = logging.OrDiscard(s.log)
	return s
}
