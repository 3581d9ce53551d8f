package capability

import (
	"context"
	"fmt"
	"strings"

	domaintask "github.com/fleetmesh/dispatch/internal/domain/task"
	portselectormap "github.com/fleetmesh/dispatch/internal/port/selectormap"
)

// Adapter derives the capability demander for one task type from the task's
// payload. A nil return means the payload demands nothing beyond the common
// sources.
type Adapter func(domaintask.Data) domaintask.CapabilityDemander

// Service attaches execution capabilities to a task before it is queued.
// Assembly is idempotent: re-running it on an already-assembled task adds
// nothing, so retried submissions do not grow the capability list.
type Service struct {
	selectorMap portselectormap.Table
	masker      domaintask.MaskingEvaluator
	adapters    map[string]Adapter
}

func NewService(selectorMap portselectormap.Table, masker domaintask.MaskingEvaluator, adapters map[string]Adapter) *Service {
	return &Service{selectorMap: selectorMap, masker: masker, adapters: adapters}
}

// httpDemander demands connectivity to the URL an HTTP task will call.
type httpDemander struct {
	url string
}

func (d httpDemander) RequiredCapabilities(ev domaintask.MaskingEvaluator) []domaintask.Capability {
	return []domaintask.Capability{
		domaintask.HTTPConnectivityCapability{URL: ev.Mask(d.url)},
	}
}

// DefaultAdapters maps the built-in task types to their payload demanders.
func DefaultAdapters() map[string]Adapter {
	return map[string]Adapter{
		"HTTP": func(d domaintask.Data) domaintask.CapabilityDemander {
			url := d.Parameters["url"]
			if url == "" {
				return nil
			}
			return httpDemander{url: url}
		},
	}
}

// Assemble merges capabilities from four sources: selector tags carried on
// the task, the operator-managed task-type selector map, the task's secret
// vault URLs, and whatever the payload itself demands through the adapter
// registered for its type. Demander capabilities go through the masking
// evaluator so no secret value ever lands in a capability description.
func (s *Service) Assemble(ctx context.Context, t *domaintask.Task) error {
	var assembled []domaintask.Capability

	if len(t.Tags) > 0 {
		assembled = append(assembled, domaintask.SelectorCapability{
			Selectors: t.Tags,
			Origin:    domaintask.OriginTaskSelectors,
		})
	}

	mapped, err := s.selectorMap.SelectorsForTaskType(ctx, t.AccountID, t.Data.Type)
	if err != nil {
		return fmt.Errorf("looking up selector map for task type %s: %w", t.Data.Type, err)
	}
	if len(mapped) > 0 {
		assembled = append(assembled, domaintask.SelectorCapability{
			Selectors: mapped,
			Origin:    domaintask.OriginTaskCategoryMap,
		})
	}

	for _, vaultURL := range t.SecretVaultURLs {
		assembled = append(assembled, domaintask.SecretVaultCapability{VaultURL: vaultURL})
	}

	if adapter, ok := s.adapters[t.Data.Type]; ok {
		if demander := adapter(t.Data); demander != nil {
			assembled = append(assembled, demander.RequiredCapabilities(s.masker)...)
		}
	}

	before := len(t.ExecutionCapabilities)
	for _, c := range assembled {
		t.ExecutionCapabilities = mergeCapability(t.ExecutionCapabilities, c)
	}
	if len(t.ExecutionCapabilities) > before {
		t.AddActivity("Required capabilities: " + capabilitySummary(t.ExecutionCapabilities))
	}
	return nil
}

func capabilitySummary(caps []domaintask.Capability) string {
	descriptions := make([]string, 0, len(caps))
	for _, c := range caps {
		descriptions = append(descriptions, c.Description())
	}
	return strings.Join(descriptions, "; ")
}

// mergeCapability appends c unless an equivalent capability is already
// present. Descriptions are secret-free and stable, so they double as
// identity.
func mergeCapability(existing []domaintask.Capability, c domaintask.Capability) []domaintask.Capability {
	for _, e := range existing {
		if e.Description() == c.Description() {
			return existing
		}
	}
	return append(existing, c)
}
