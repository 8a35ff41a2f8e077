package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/peterbourgon/ff"
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/voyage-log/api"
	"github.com/a-bouts/voyage-log/logbook"
	"github.com/a-bouts/voyage-log/photo"
	"github.com/a-bouts/voyage-log/session"
	"github.com/a-bouts/voyage-log/track"
	"github.com/a-bouts/voyage-log/xmpp"
)

func loadTrack(file string) (*track.Track, error) {
	if file == "" {
		log.Info("Load embedded voyage")
		return logbook.Default()
	}
	log.Infof("Load voyage from '%s'", file)
	return logbook.Load(file)
}

func main() {

	fs := flag.NewFlagSet("voyage-log", flag.ExitOnError)
	var (
		addr          = fs.String("addr", ":8888", "listen address")
		trackFile     = fs.String("track-file", "", "json or gpx voyage, the embedded voyage when empty")
		maxPhotoWidth = fs.Int("max-photo-width", photo.DefaultMaxWidth, "photos are downscaled to this width")
		photoQuality  = fs.Int("photo-quality", photo.DefaultQuality, "jpeg quality of stored photos")
		sessionTTL    = fs.Duration("session-ttl", 2*time.Hour, "idle sessions are dropped after this delay")
		debug         = fs.Bool("debug", false, "debug logs")
		cpuprofile    = fs.Bool("cpuprofile", false, "profile overlay computations")
		xmppHost      = fs.String("xmpp-host", "", "")
		xmppJid       = fs.String("xmpp-jid", "", "")
		xmppPassword  = fs.String("xmpp-password", "", "")
		xmppTo        = fs.String("xmpp-to", "", "")
	)
	ff.Parse(fs, os.Args[1:], ff.WithEnvVarNoPrefix())

	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	t, err := loadTrack(*trackFile)
	if err != nil {
		log.Fatalf("Could not load voyage: %v", err)
	}
	totals, err := t.Totals()
	if err != nil {
		log.Fatalf("Voyage '%s' is unusable: %v", t.Name, err)
	}
	log.Infof("Voyage '%s' : %.1f nm in %s over %d legs", t.Name, totals.Distance, totals.Duration, totals.Legs)

	sessions := session.NewStore(t, photo.ExifReader{}, photo.Options{MaxWidth: *maxPhotoWidth, Quality: *photoQuality}, *sessionTTL)

	x := xmpp.New(xmpp.Config{Host: *xmppHost, Jid: *xmppJid, Password: *xmppPassword, To: *xmppTo})
	if x.Enabled() {
		sessions.Subscribe(x.PhotoNotifier(t))
	} else {
		log.Info("No xmpp config, photo notifications disabled")
	}
	sessions.Subscribe(func(e session.Event) {
		log.WithFields(log.Fields{"session": e.Session, "event": e.Type}).Debug("Session changed")
	})

	sessions.StartSweeper(time.Minute)

	router := api.InitServer(*cpuprofile, t, sessions)
	handler := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}),
		handlers.AllowedHeaders([]string{"Content-Type", api.SessionHeader}),
		handlers.ExposedHeaders([]string{api.SessionHeader}),
	)(router)

	log.Infof("Start server on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, handlers.LoggingHandler(os.Stdout, handler)))
}
