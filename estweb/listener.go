package estweb

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/ucb-ee106-classrooms/project-3-gang/estimator"
)

// Listener feeds frames into a running room over its websocket endpoint.
// The harness drives one per estimator run.
type Listener struct {
	host string
	c    *websocket.Conn
}

func NewListener(host string) (*Listener, error) {
	l := &Listener{host: host}
	if err := l.connect(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Listener) connect() (err error) {
	u := url.URL{Scheme: "ws", Host: l.host, Path: "/estweb"}
	l.c, _, err = websocket.DefaultDialer.Dial(u.String(), nil)
	return
}

// Send publishes one truth/estimate pair. A write failure drops the frame
// and redials so the next one can go through.
func (l *Listener) Send(name string, truth, est estimator.StateSample) error {
	msg, err := json.Marshal(FrameFrom(name, truth, est))
	if err != nil {
		logrus.WithError(err).Error("estweb: error marshalling frame")
		return err
	}
	if err := l.c.WriteMessage(websocket.TextMessage, msg); err != nil {
		logrus.WithError(err).Warn("estweb: error writing to websocket, redialing")
		err2 := l.connect()
		return fmt.Errorf("estweb: %v: %v", err, err2)
	}
	return nil
}

func (l *Listener) Close() {
	if err := l.c.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")); err != nil {
		logrus.WithError(err).Warn("estweb: error closing websocket")
		return
	}
	l.c.Close()
}
