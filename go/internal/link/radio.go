package link

import "errors"

var ErrClosed = errors.New("radio closed")

// Radio is a shared broadcast medium. A transmitted frame reaches zero or more
// other radios on the channel, never the sender, with no delivery guarantee.
type Radio interface {
	Tx(data []byte) error
	// Listen installs the receive callback. It is invoked outside the
	// owner's tick loop and must return quickly.
	Listen(fn func(data []byte)) error
	Close() error
}
