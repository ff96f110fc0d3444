package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nandanugg/silentzone/module/core/domain"
)

type fakeToken struct {
	done chan struct{}
	err  error
}

func newFakeToken(err error, completed bool) *fakeToken {
	t := &fakeToken{done: make(chan struct{}), err: err}
	if completed {
		close(t.done)
	}
	return t
}

func (t *fakeToken) Wait() bool                     { <-t.done; return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{}          { return t.done }
func (t *fakeToken) Error() error                   { return t.err }

type fakePublisher struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
	token    *fakeToken
}

func (f *fakePublisher) Publish(topic string, qos byte, retained bool, payload interface{}) pahomqtt.Token {
	f.topic = topic
	f.qos = qos
	f.retained = retained
	f.payload = payload.([]byte)
	return f.token
}

func TestSetRingerMode_Publishes(t *testing.T) {
	pub := &fakePublisher{token: newFakeToken(nil, true)}
	act := &RingerActuator{client: pub, topic: "silentzone/device/phone-1/ringer"}

	err := act.SetRingerMode(context.Background(), &domain.RingerCommand{
		Mode:     domain.RingerSilent,
		IssuedAt: time.Unix(1715003456, 0),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pub.topic != "silentzone/device/phone-1/ringer" {
		t.Errorf("unexpected topic %s", pub.topic)
	}
	if pub.qos != 1 || pub.retained {
		t.Errorf("expected qos 1 non-retained, got qos=%d retained=%v", pub.qos, pub.retained)
	}

	var msg ringerMessage
	if err := json.Unmarshal(pub.payload, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Mode != domain.RingerSilent || msg.IssuedAt != 1715003456 {
		t.Errorf("unexpected payload %+v", msg)
	}
}

func TestSetRingerMode_TokenError(t *testing.T) {
	pub := &fakePublisher{token: newFakeToken(errors.New("not connected"), true)}
	act := &RingerActuator{client: pub, topic: "t"}

	err := act.SetRingerMode(context.Background(), &domain.RingerCommand{Mode: domain.RingerNormal})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestSetRingerMode_ContextCancelled(t *testing.T) {
	pub := &fakePublisher{token: newFakeToken(nil, false)}
	act := &RingerActuator{client: pub, topic: "t"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := act.SetRingerMode(ctx, &domain.RingerCommand{Mode: domain.RingerNormal})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSetRingerMode_TimesOut(t *testing.T) {
	pub := &fakePublisher{token: newFakeToken(nil, false)}
	act := &RingerActuator{client: pub, topic: "t", timeout: 10 * time.Millisecond}

	start := time.Now()
	err := act.SetRingerMode(context.Background(), &domain.RingerCommand{Mode: domain.RingerSilent})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("expected configured timeout to apply, took %s", elapsed)
	}
}

func TestSetRingerMode_ZeroTimeoutFallsBackToDefault(t *testing.T) {
	pub := &fakePublisher{token: newFakeToken(nil, true)}
	act := &RingerActuator{client: pub, topic: "t"}

	if err := act.SetRingerMode(context.Background(), &domain.RingerCommand{Mode: domain.RingerNormal}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
