package xmpp

import (
	"crypto/tls"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-xmpp"
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/voyage-log/session"
	"github.com/a-bouts/voyage-log/track"
)

var ErrMissingConfig = errors.New("missing xmpp config")

type (
	// Config for the notifier.
	Config struct {
		Host     string
		Jid      string
		Password string
		To       string
	}

	Xmpp struct {
		Config Config
		send   func(options xmpp.Options, chat xmpp.Chat) error
	}
)

func New(config Config) *Xmpp {
	return &Xmpp{Config: config, send: send}
}

func (x *Xmpp) Enabled() bool {
	return len(x.Config.Jid) > 0 && len(x.Config.Password) > 0 && len(x.Config.To) > 0
}

func serverName(jid string) string {
	parts := strings.Split(jid, "@")
	return parts[len(parts)-1]
}

func send(options xmpp.Options, chat xmpp.Chat) error {
	talk, err := options.NewClient()
	if err != nil {
		return err
	}
	defer talk.Close()

	_, err = talk.Send(chat)
	return err
}

func (x *Xmpp) Send(message string) error {
	if !x.Enabled() {
		return ErrMissingConfig
	}

	host := x.Config.Host
	if len(host) == 0 {
		host = serverName(x.Config.Jid)
	}

	options := xmpp.Options{
		Host:          host,
		User:          x.Config.Jid,
		Password:      x.Config.Password,
		NoTLS:         true,
		StartTLS:      true,
		TLSConfig: &tls.Config{
			ServerName:         serverName(x.Config.Jid),
			InsecureSkipVerify: true,
		},
		Debug:         false,
		Session:       false,
		Status:        "xa",
		StatusMessage: "Logging the voyage",
	}

	log.Debugf("Send xmpp message to %s", x.Config.To)
	return x.send(options, xmpp.Chat{Remote: x.Config.To, Type: "chat", Text: message})
}

// PhotoNotifier returns a session subscriber announcing saved photos
func (x *Xmpp) PhotoNotifier(t *track.Track) func(session.Event) {
	return func(e session.Event) {
		if e.Type != session.PhotoSaved {
			return
		}
		w, ok := t.At(e.Index)
		if !ok {
			return
		}

		message := fmt.Sprintf("New photo on '%s' waypoint %d (%s, %s)", w.Leg, w.Index, w.LatLon, w.Time.Format("2006-01-02 15:04 MST"))
		go func() {
			if err := x.Send(message); err != nil {
				log.Warnf("Could not send photo notification: %v", err)
			}
		}()
	}
}
