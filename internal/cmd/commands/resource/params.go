package resource

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ansys/conceptev-go/internal/cmd/base"
)

// paramFlag collects repeated -param key=value flags.
type paramFlag struct {
	values url.Values
}

func (p *paramFlag) register(f *base.FlagSet) {
	f.Func("param", "Extra query parameter as `key=value`. May be repeated.", p.set)
}

func (p *paramFlag) set(s string) error {
	key, value, ok := strings.Cut(s, "=")
	if !ok || key == "" {
		return fmt.Errorf("expected key=value, got %q", s)
	}
	if p.values == nil {
		p.values = url.Values{}
	}
	p.values.Add(key, value)
	return nil
}
