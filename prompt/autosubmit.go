package prompt

import (
	"os"
	"strconv"
	"time"

	"github.com/drake/scriptkit/protocol"
)

// Auto-submit environment variables (§4.7 "Auto-submit mode (test hook)").
// Presence of EnvAutoSubmit enables the hook; it MUST NOT be set in
// production.
const (
	EnvAutoSubmit      = "AUTO_SUBMIT"
	EnvAutoSubmitDelay = "AUTO_SUBMIT_DELAY_MS"
	EnvAutoSubmitValue = "AUTO_SUBMIT_VALUE"
)

const defaultAutoSubmitDelay = 100 * time.Millisecond

// AutoSubmit drives the deterministic-value test hook. It is constructed
// once at process start from the environment and shared across all Machine
// instances in the process.
type AutoSubmit struct {
	enabled     bool
	delay       time.Duration
	overrideVal string
	hasOverride bool
	clock       Clock
}

// NewAutoSubmitFromEnv builds an AutoSubmit by reading the environment
// (§4.7), scheduling on the real system clock. Call once at startup; an
// autosubmit instance built this way is inert (Enabled() == false) unless
// EnvAutoSubmit is set.
func NewAutoSubmitFromEnv() *AutoSubmit {
	return newAutoSubmitFromEnv(systemClock{})
}

// newAutoSubmitFromEnv is NewAutoSubmitFromEnv with an injectable Clock, so
// tests can fire the delay synchronously instead of sleeping.
func newAutoSubmitFromEnv(clock Clock) *AutoSubmit {
	a := &AutoSubmit{
		delay: defaultAutoSubmitDelay,
		clock: clock,
	}
	if os.Getenv(EnvAutoSubmit) == "" {
		return a
	}
	a.enabled = true

	if raw := os.Getenv(EnvAutoSubmitDelay); raw != "" {
		if ms, err := strconv.Atoi(raw); err == nil && ms >= 0 {
			a.delay = time.Duration(ms) * time.Millisecond
		}
	}
	if v, ok := os.LookupEnv(EnvAutoSubmitValue); ok {
		a.overrideVal = v
		a.hasOverride = true
	}
	return a
}

// Enabled reports whether auto-submit is active. MUST be false whenever
// EnvAutoSubmit is unset, which production deployments never set.
func (a *AutoSubmit) Enabled() bool {
	return a != nil && a.enabled
}

// Schedule arranges for submitFn to be called after the configured delay
// with a deterministic value for msg's variant (§4.7: "the first choice for
// list variants, the seed content for editor, empty defaults for fields").
func (a *AutoSubmit) Schedule(msg protocol.PromptMessage, submitFn func(*string)) {
	value := a.valueFor(msg)
	a.clock.AfterFunc(int(a.delay.Milliseconds()), func() { submitFn(&value) })
}

func (a *AutoSubmit) valueFor(msg protocol.PromptMessage) string {
	if a.hasOverride {
		return a.overrideVal
	}

	switch msg.Type {
	case protocol.TypeArg, protocol.TypeMini, protocol.TypeMicro:
		if len(msg.Choices) > 0 {
			return msg.Choices[0].Value
		}
		return ""
	case protocol.TypeSelect:
		if len(msg.Choices) > 0 {
			return EncodeSelectValue(msg.Choices, []int{0})
		}
		return EncodeSelectValue(nil, nil)
	case protocol.TypeEditor:
		return msg.Content
	case protocol.TypeFields:
		return EncodeFieldsValue(make([]string, len(msg.Fields)))
	case protocol.TypeTemplate:
		return msg.Template
	case protocol.TypePath:
		return msg.StartPath
	case protocol.TypeForm:
		return EncodeFormValue(map[string]string{})
	case protocol.TypeDrop:
		return EncodeDropValue(nil)
	default:
		return ""
	}
}
