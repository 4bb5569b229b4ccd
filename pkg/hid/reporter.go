// Package hid turns local volume actions into consumer control
// reports for a remote host.
package hid

import (
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"
	"github.com/golang/protobuf/proto"

	"github.com/robotalks/ampbridge/pkg/mqtt"
)

// Reporter emits consumer control actions. Calls never block and
// never fail; a Reporter that cannot deliver drops the action.
type Reporter interface {
	VolumeUp()
	VolumeDown()
	Mute()
	// Tick releases held keys whose hold time elapsed.
	Tick(now time.Time)
}

// Nop is the Reporter used when no channel is available.
type Nop struct{}

// VolumeUp implements Reporter.
func (Nop) VolumeUp() {}

// VolumeDown implements Reporter.
func (Nop) VolumeDown() {}

// Mute implements Reporter.
func (Nop) Mute() {}

// Tick implements Reporter.
func (Nop) Tick(time.Time) {}

// Defaults.
const (
	DefaultHold           = 20 * time.Millisecond
	DefaultConnectTimeout = 2 * time.Second
	ReportTopic           = "hid/report"
)

const maxInflight = 32

// Publisher publishes without waiting.
type Publisher interface {
	Pub(topic string, payload []byte) paho.Token
}

// Clock provides the press time.
type Clock interface {
	Now() time.Time
}

// MQTTReporter publishes press and release reports.
type MQTTReporter struct {
	Pub    Publisher
	Topic  string
	Hold   time.Duration
	Clock  Clock
	Source string

	seq      uint32
	held     []heldKey
	inflight []paho.Token
	errors   uint64
}

type heldKey struct {
	usage     uint32
	releaseAt time.Time
}

// NewMQTTReporter creates a reporter on a publisher.
func NewMQTTReporter(pub Publisher, clock Clock) *MQTTReporter {
	return &MQTTReporter{
		Pub:   pub,
		Topic: ReportTopic,
		Hold:  DefaultHold,
		Clock: clock,
	}
}

// VolumeUp implements Reporter.
func (r *MQTTReporter) VolumeUp() { r.press(UsageVolumeIncrement) }

// VolumeDown implements Reporter.
func (r *MQTTReporter) VolumeDown() { r.press(UsageVolumeDecrement) }

// Mute implements Reporter.
func (r *MQTTReporter) Mute() { r.press(UsageMute) }

// Held returns the number of keys waiting for release.
func (r *MQTTReporter) Held() int {
	return len(r.held)
}

// Errors returns the number of failed publishes observed.
func (r *MQTTReporter) Errors() uint64 {
	return r.errors
}

// Tick implements Reporter.
func (r *MQTTReporter) Tick(now time.Time) {
	n := 0
	for _, k := range r.held {
		if now.Before(k.releaseAt) {
			r.held[n] = k
			n++
			continue
		}
		r.publish(k.usage, false)
	}
	r.held = r.held[:n]
	r.reap()
}

func (r *MQTTReporter) press(usage uint32) {
	// a key still held is released first so presses never overlap
	for i, k := range r.held {
		if k.usage == usage {
			r.publish(usage, false)
			r.held = append(r.held[:i], r.held[i+1:]...)
			break
		}
	}
	r.publish(usage, true)
	hold := r.Hold
	if hold <= 0 {
		hold = DefaultHold
	}
	r.held = append(r.held, heldKey{usage: usage, releaseAt: r.Clock.Now().Add(hold)})
}

func (r *MQTTReporter) publish(usage uint32, pressed bool) {
	r.seq++
	payload, err := proto.Marshal(&Report{Usage: usage, Pressed: pressed, Seq: r.seq, Source: r.Source})
	if err != nil {
		r.errors++
		glog.Errorf("encode report: %v", err)
		return
	}
	glog.V(1).Infof("HID %s pressed=%v seq=%d", UsageName(usage), pressed, r.seq)
	if token := r.Pub.Pub(r.Topic, payload); token != nil {
		if len(r.inflight) >= maxInflight {
			r.inflight = r.inflight[:copy(r.inflight, r.inflight[1:])]
		}
		r.inflight = append(r.inflight, token)
	}
}

// reap checks completed publishes without waiting.
func (r *MQTTReporter) reap() {
	n := 0
	for _, token := range r.inflight {
		if !token.WaitTimeout(0) {
			r.inflight[n] = token
			n++
			continue
		}
		if err := token.Error(); err != nil {
			r.errors++
			glog.Warningf("HID publish: %v", err)
		}
	}
	r.inflight = r.inflight[:n]
}

// Config selects the reporter.
type Config struct {
	// BrokerURL is the MQTT broker; empty disables reporting.
	BrokerURL      string
	ConnectTimeout time.Duration
	Hold           time.Duration
}

// New selects the reporter once at startup: an MQTTReporter when
// the broker is reachable, otherwise Nop. The returned close func
// is never nil.
func New(cfg Config, clock Clock) (Reporter, func()) {
	if cfg.BrokerURL == "" {
		glog.Info("input reporter disabled")
		return Nop{}, func() {}
	}
	opts, prefix, err := mqtt.ClientOptionsFromURL(cfg.BrokerURL)
	if err != nil {
		glog.Warningf("input reporter disabled: %v", err)
		return Nop{}, func() {}
	}
	q := mqtt.NewQueue(opts, prefix)
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}
	if err := q.Connect(timeout); err != nil {
		glog.Warningf("input reporter disabled: broker %s: %v", cfg.BrokerURL, err)
		q.Close()
		return Nop{}, func() {}
	}
	r := NewMQTTReporter(q, clock)
	r.Source = opts.ClientID
	if cfg.Hold > 0 {
		r.Hold = cfg.Hold
	}
	glog.Infof("input reporter on %s%s", q.TopicPrefix, r.Topic)
	return r, func() { q.Close() }
}
