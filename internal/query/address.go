package query

import (
	"net"
	"strconv"
	"strings"

	"github.com/reedfamily/a2sbot/internal/errs"
)

const DefaultPort = 27015

type Address struct {
	Host string
	Port int
}

func (a Address) String() string {
	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Dial returns the address in the form net.Dial expects.
func (a Address) Dial() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// ParseAddress parses "host" or "host:port". The port is taken after the last
// colon and must be all digits.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	idx := strings.LastIndexByte(s, ':')
	if idx < 0 {
		return Address{Host: s, Port: DefaultPort}, nil
	}
	port, err := ParsePort(s[idx+1:])
	if err != nil {
		return Address{}, err
	}
	return Address{Host: s[:idx], Port: port}, nil
}

// ParsePort validates a bare port string.
func ParsePort(s string) (int, error) {
	if !isDigits(s) {
		return 0, errs.New(errs.InvalidInput, "port must be numeric")
	}
	port, err := strconv.Atoi(s)
	if err != nil || port < 1 || port > 65535 {
		return 0, errs.New(errs.InvalidInput, "port out of range")
	}
	return port, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
