//go:build !darwin

package sysquery

// SystemGateway is only functional on darwin; every call on other
// platforms reports ErrUnsupportedPlatform.
type SystemGateway struct{}

var _ Gateway = (*SystemGateway)(nil)

// NewSystemGateway reports ErrUnsupportedPlatform
func NewSystemGateway() (*SystemGateway, error) {
	return nil, ErrUnsupportedPlatform
}

func (g *SystemGateway) ByName(name string, out []byte) (int, error) {
	return 0, ErrUnsupportedPlatform
}

func (g *SystemGateway) ByMIB(mib []int32, out []byte) (int, error) {
	return 0, ErrUnsupportedPlatform
}

func (g *SystemGateway) PidInfo(pid, flavor int32, out []byte) (int, error) {
	return 0, ErrUnsupportedPlatform
}

func (g *SystemGateway) PidPath(pid int32, out []byte) (int, error) {
	return 0, ErrUnsupportedPlatform
}

func (g *SystemGateway) PidRusage(pid, flavor int32, out []byte) (int, error) {
	return 0, ErrUnsupportedPlatform
}
