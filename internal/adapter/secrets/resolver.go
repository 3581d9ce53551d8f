package secrets

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	domaintask "github.com/fleetmesh/dispatch/internal/domain/task"
	portresolver "github.com/fleetmesh/dispatch/internal/port/resolver"
)

var exprPattern = regexp.MustCompile(`\$\{secrets\.([A-Za-z0-9_.\-]+)\}`)

// Source looks up one secret by name for a tenant.
type Source interface {
	Secret(ctx context.Context, accountID, name string) (string, error)
}

// Resolver expands `${secrets.NAME}` expressions in task parameters. In
// dry-run mode every expression resolves to a masked placeholder, so the
// validation handshake can describe capabilities without shipping a live
// value; apply mode resolves against the source exactly once, at assignment.
type Resolver struct {
	source Source
}

func New(source Source) *Resolver {
	return &Resolver{source: source}
}

func (r *Resolver) Resolve(ctx context.Context, t *domaintask.Task, mode portresolver.Mode) (map[string]string, error) {
	secrets := make(map[string]string)
	for _, value := range t.Data.Parameters {
		for _, match := range exprPattern.FindAllStringSubmatch(value, -1) {
			name := match[1]
			if _, done := secrets[name]; done {
				continue
			}
			if mode == portresolver.ModeDryRun {
				secrets[name] = maskedValue(name)
				continue
			}
			live, err := r.source.Secret(ctx, t.EffectiveAccountID(), name)
			if err != nil {
				return nil, fmt.Errorf("resolving secret %s: %w", name, err)
			}
			secrets[name] = live
		}
	}
	return secrets, nil
}

// Mask implements task.MaskingEvaluator: expressions keep their shape but
// secret references are replaced with placeholders.
func (r *Resolver) Mask(expression string) string {
	return exprPattern.ReplaceAllStringFunc(expression, func(m string) string {
		sub := exprPattern.FindStringSubmatch(m)
		return maskedValue(sub[1])
	})
}

func maskedValue(name string) string {
	return "<<" + name + ">>"
}

// EnvSource resolves secrets from the process environment under
// SECRET_<NAME>, with dots and dashes folded to underscores. It is the
// default source for single-tenant deployments without a vault.
type EnvSource struct{}

func (EnvSource) Secret(_ context.Context, _ string, name string) (string, error) {
	key := "SECRET_" + strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(name))
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", fmt.Errorf("secret %s not found in environment", name)
	}
	return value, nil
}
