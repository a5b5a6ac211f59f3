package adapter

import (
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/jmgilman/authgate/internal/exec"
	"github.com/jmgilman/authgate/internal/store"
)

// ServiceID identifies a built-in service.
type ServiceID string

// Built-in services.
const (
	GitHub ServiceID = "github"
	GitLab ServiceID = "gitlab"
	AWS    ServiceID = "aws"
	GCP    ServiceID = "gcp"
	Azure  ServiceID = "azure"
)

// BuiltinServices lists every built-in service in display order.
var BuiltinServices = []ServiceID{GitHub, GitLab, AWS, GCP, Azure}

// Builtin returns the descriptor for a built-in service.
// Panics on an unknown ID; every ServiceID constant must have a case.
func Builtin(id ServiceID) Descriptor {
	switch id {
	case GitHub:
		return Descriptor{
			Name:       string(GitHub),
			Binary:     "gh",
			Check:      Command{"gh", "auth", "status"},
			Login:      Command{"gh", "auth", "login", "--web"},
			TokenLogin: Command{"gh", "auth", "login", "--with-token"},
			TokenEnv:   "GH_TOKEN",
		}
	case GitLab:
		return Descriptor{
			Name:       string(GitLab),
			Binary:     "glab",
			Check:      Command{"glab", "auth", "status"},
			Login:      Command{"glab", "auth", "login"},
			TokenLogin: Command{"glab", "auth", "login", "--stdin"},
			TokenEnv:   "GITLAB_TOKEN",
		}
	case AWS:
		return Descriptor{
			Name:     string(AWS),
			Binary:   "aws",
			Check:    Command{"aws", "sts", "get-caller-identity"},
			Login:    Command{"aws", "sso", "login"},
			TokenEnv: "AWS_ACCESS_KEY_ID",
		}
	case GCP:
		return Descriptor{
			Name:          string(GCP),
			Binary:        "gcloud",
			Check:         Command{"gcloud", "auth", "list", "--filter=status:ACTIVE", "--format=value(account)"},
			Login:         Command{"gcloud", "auth", "login"},
			TokenEnv:      "CLOUDSDK_AUTH_ACCESS_TOKEN",
			RequireOutput: true,
		}
	case Azure:
		return Descriptor{
			Name:     string(Azure),
			Binary:   "az",
			Check:    Command{"az", "account", "show"},
			Login:    Command{"az", "login"},
			TokenEnv: "AZURE_CLIENT_SECRET",
		}
	}
	panic(fmt.Sprintf("adapter: no descriptor for service %q", id))
}

// Registry resolves service names to adapters. It is immutable after
// construction and safe for concurrent use.
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry builds a registry holding every built-in service plus the
// given custom descriptors. A custom name that collides with another
// service returns ErrDuplicateService.
func NewRegistry(executor exec.Executor, custom ...Descriptor) (*Registry, error) {
	r := &Registry{adapters: make(map[string]Adapter, len(BuiltinServices)+len(custom))}

	for _, id := range BuiltinServices {
		desc := Builtin(id)
		r.adapters[desc.Name] = NewCommandAdapter(desc, executor)
	}

	for _, desc := range custom {
		if err := Validate(desc); err != nil {
			return nil, err
		}
		if _, exists := r.adapters[desc.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateService, desc.Name)
		}
		r.adapters[desc.Name] = NewCommandAdapter(desc, executor)
	}

	return r, nil
}

// NewRegistryFromAdapters builds a registry from prebuilt adapters.
func NewRegistryFromAdapters(adapters ...Adapter) (*Registry, error) {
	r := &Registry{adapters: make(map[string]Adapter, len(adapters))}
	for _, a := range adapters {
		name := a.Descriptor().Name
		if _, exists := r.adapters[name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateService, name)
		}
		r.adapters[name] = a
	}
	return r, nil
}

// Resolve returns the adapter for name. Matching is exact and
// case-sensitive; unknown names return ErrUnsupportedService.
func (r *Registry) Resolve(name string) (Adapter, error) {
	a, ok := r.adapters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedService, name)
	}
	return a, nil
}

// Names returns every registered service name, sorted.
func (r *Registry) Names() []string {
	names := lo.Keys(r.adapters)
	sort.Strings(names)
	return names
}

// ByBinary returns the adapter whose Binary is binary.
func (r *Registry) ByBinary(binary string) (Adapter, bool) {
	for _, name := range r.Names() {
		a := r.adapters[name]
		if a.Descriptor().Binary == binary {
			return a, true
		}
	}
	return nil, false
}

// Validate checks that desc is usable as a registry entry.
func Validate(desc Descriptor) error {
	if err := store.ValidateKey(desc.Name); err != nil {
		return fmt.Errorf("%w: name: %w", ErrInvalidDescriptor, err)
	}
	if len(desc.Check) == 0 || desc.Check[0] == "" {
		return fmt.Errorf("%w: %s: check command is required", ErrInvalidDescriptor, desc.Name)
	}
	if len(desc.Login) == 0 && len(desc.TokenLogin) == 0 {
		return fmt.Errorf("%w: %s: a login or token_login command is required", ErrInvalidDescriptor, desc.Name)
	}
	if len(desc.Login) > 0 && desc.Login[0] == "" {
		return fmt.Errorf("%w: %s: login command has an empty executable", ErrInvalidDescriptor, desc.Name)
	}
	if len(desc.TokenLogin) > 0 && desc.TokenLogin[0] == "" {
		return fmt.Errorf("%w: %s: token_login command has an empty executable", ErrInvalidDescriptor, desc.Name)
	}
	return nil
}
