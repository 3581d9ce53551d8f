package task

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EvaluationMode says where a capability is checked: on the manager during
// eligibility computation, or on the delegate during the validation
// handshake.
type EvaluationMode string

const (
	EvaluationModeManager EvaluationMode = "manager"
	EvaluationModeAgent   EvaluationMode = "agent"
)

// Capability is a declared precondition a delegate must satisfy to run a
// task.
type Capability interface {
	EvaluationMode() EvaluationMode
	// Description is the human-readable form used in selection logs and the
	// task activity log. It must never contain secret values.
	Description() string
}

// Selector capability origins.
const (
	OriginTaskSelectors   = "Task Selectors"
	OriginTaskCategoryMap = "Task Category Map"
)

// SelectorCapability requires the delegate to carry every listed selector
// tag. Evaluated centrally.
type SelectorCapability struct {
	Selectors []string `json:"selectors"`
	Origin    string   `json:"origin"`
}

func (c SelectorCapability) EvaluationMode() EvaluationMode { return EvaluationModeManager }

func (c SelectorCapability) Description() string {
	return fmt.Sprintf("%s: [%s]", c.Origin, strings.Join(c.Selectors, ", "))
}

// HTTPConnectivityCapability requires the delegate to reach the given URL.
// Evaluated on the delegate.
type HTTPConnectivityCapability struct {
	URL string `json:"url"`
}

func (c HTTPConnectivityCapability) EvaluationMode() EvaluationMode { return EvaluationModeAgent }

func (c HTTPConnectivityCapability) Description() string {
	return "http connectivity: " + c.URL
}

// SecretVaultCapability requires the delegate to reach the secret manager
// backing one of the task's credentials. Evaluated on the delegate.
type SecretVaultCapability struct {
	VaultURL string `json:"vault_url"`
}

func (c SecretVaultCapability) EvaluationMode() EvaluationMode { return EvaluationModeAgent }

func (c SecretVaultCapability) Description() string {
	return "secret vault connectivity: " + c.VaultURL
}

// AgentCapabilities filters the capabilities that must be proven on the
// delegate side. The count of these is the validation-gating threshold.
func AgentCapabilities(capabilities []Capability) []Capability {
	var out []Capability
	for _, c := range capabilities {
		if c.EvaluationMode() == EvaluationModeAgent {
			out = append(out, c)
		}
	}
	return out
}

// SelectorCapabilities extracts the selector capabilities for selection-log
// rendering.
func SelectorCapabilities(capabilities []Capability) []SelectorCapability {
	var out []SelectorCapability
	for _, c := range capabilities {
		if sc, ok := c.(SelectorCapability); ok {
			out = append(out, sc)
		}
	}
	return out
}

// MaskingEvaluator renders parameter expressions for capability descriptions
// without substituting live secret values.
type MaskingEvaluator interface {
	Mask(expression string) string
}

// CapabilityDemander is implemented by parameter objects that know their own
// execution preconditions. The evaluator must be used for any value that may
// reference a secret.
type CapabilityDemander interface {
	RequiredCapabilities(evaluator MaskingEvaluator) []Capability
}

// capabilityEnvelope is the type-tagged wire form for the polymorphic
// capability list.
type capabilityEnvelope struct {
	Kind string          `json:"kind"`
	Spec json.RawMessage `json:"spec"`
}

const (
	kindSelector    = "selector"
	kindHTTP        = "http_connectivity"
	kindSecretVault = "secret_vault"
)

// MarshalCapabilities encodes a capability list into its envelope form for
// storage.
func MarshalCapabilities(capabilities []Capability) ([]byte, error) {
	envelopes := make([]capabilityEnvelope, 0, len(capabilities))
	for _, c := range capabilities {
		var kind string
		switch c.(type) {
		case SelectorCapability:
			kind = kindSelector
		case HTTPConnectivityCapability:
			kind = kindHTTP
		case SecretVaultCapability:
			kind = kindSecretVault
		default:
			return nil, fmt.Errorf("unknown capability type %T", c)
		}
		spec, err := json.Marshal(c)
		if err != nil {
			return nil, fmt.Errorf("marshaling %s capability: %w", kind, err)
		}
		envelopes = append(envelopes, capabilityEnvelope{Kind: kind, Spec: spec})
	}
	return json.Marshal(envelopes)
}

// UnmarshalCapabilities decodes the envelope form back into typed
// capabilities.
func UnmarshalCapabilities(data []byte) ([]Capability, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var envelopes []capabilityEnvelope
	if err := json.Unmarshal(data, &envelopes); err != nil {
		return nil, fmt.Errorf("unmarshaling capability envelopes: %w", err)
	}
	capabilities := make([]Capability, 0, len(envelopes))
	for _, env := range envelopes {
		var c Capability
		switch env.Kind {
		case kindSelector:
			var sc SelectorCapability
			if err := json.Unmarshal(env.Spec, &sc); err != nil {
				return nil, fmt.Errorf("unmarshaling selector capability: %w", err)
			}
			c = sc
		case kindHTTP:
			var hc HTTPConnectivityCapability
			if err := json.Unmarshal(env.Spec, &hc); err != nil {
				return nil, fmt.Errorf("unmarshaling http capability: %w", err)
			}
			c = hc
		case kindSecretVault:
			var vc SecretVaultCapability
			if err := json.Unmarshal(env.Spec, &vc); err != nil {
				return nil, fmt.Errorf("unmarshaling secret vault capability: %w", err)
			}
			c = vc
		default:
			return nil, fmt.Errorf("unknown capability kind %q", env.Kind)
		}
		capabilities = append(capabilities, c)
	}
	return capabilities, nil
}
