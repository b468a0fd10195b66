/* Copyright 2023 Jens Keiner
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// csd is a changeset registry daemon.
//
// It keeps a registry of changesets (one per exchange) in memory,
// persists it in a Bolt database, and accepts operations over HTTP,
// WebSockets, TCP, stdin, and (optionally) MQTT.
package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"regexp"
	"runtime/pprof"

	"github.com/jenskeiner/exchange-calendars-extensions-api/changes"
	"github.com/jenskeiner/exchange-calendars-extensions-api/csio"
	"github.com/jenskeiner/exchange-calendars-extensions-api/tools"
	"github.com/jenskeiner/exchange-calendars-extensions-api/util"
)

func main() {

	var (
		dbFile   = flag.String("d", "changes.db", "storage filename")
		bootFile = flag.String("b", "", "file to read for initial ops")
		seedURL  = flag.String("u", "", "URL of a registry document to load at start")

		httpPort  = flag.String("h", "", "HTTP port for our service")
		wsService = flag.Bool("w", true, "WebSockets service")
		httpDir   = flag.String("f", "", "directory to serve via HTTP")
		tcpPort   = flag.String("t", ":9000", "port for our TCP listener")

		checkpoints = flag.String("c", "", "cron schedule for registry checkpoints")

		listenOnStdin = flag.Bool("I", false, "listen for ops on stdin")

		broker   = flag.String("broker", "", "MQTT broker URL (empty: no MQTT)")
		clientId = flag.String("i", "csd", "MQTT client id")
		pubTopic = flag.String("pub-topic", "changes/ops", "MQTT topic for applied ops")
		subTopic = flag.String("sub-topic", "", "MQTT topic for in-bound ops")
		qos      = flag.Int("qos", 0, "MQTT QoS")
	)

	flag.BoolVar(&util.Verbose, "v", false, "log lots of wonderful things")

	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())

	s, err := NewService(ctx, *dbFile)
	if err != nil {
		panic(err)
	}
	s.Tracing = util.Verbose
	s.Errors = make(chan error, 8)

	monitor(ctx, s.Errors, "errors")

	if *seedURL != "" {
		f := &csio.Fetcher{}
		r, err := f.FetchRegistry(ctx, *seedURL)
		if err != nil {
			panic(err)
		}
		r.Each(func(exchange string, cs *changes.ChangeSet) error {
			s.registry.Set(exchange, cs)
			s.persist(ctx, exchange)
			return nil
		})
		log.Printf("seeded %d changesets from %s", r.Len(), *seedURL)
	}

	// Boot before accepting traffic so the initial ops see a quiet
	// registry.
	if *bootFile != "" {
		if err := s.Boot(ctx, *bootFile); err != nil {
			panic(err)
		}
	}

	if *checkpoints != "" && s.store != nil {
		cp := &csio.Checkpointer{
			Schedule: *checkpoints,
			Store:    s.store,
			Registry: s.registry,
			Errors:   s.Errors,
		}
		if err := cp.Start(ctx); err != nil {
			panic(err)
		}
	}

	if *broker != "" {
		m := &MQTTCouplings{
			Broker:   *broker,
			ClientId: *clientId,
			PubTopic: *pubTopic,
			SubTopic: *subTopic,
			QoS:      byte(*qos),
		}
		if err := m.Start(ctx, s); err != nil {
			panic(err)
		}
	}

	if *listenOnStdin {
		go func() {
			if err = s.Listener(ctx, bufio.NewReader(os.Stdin), os.Stdout, nil); err != nil {
				log.Printf("Service.Listener os.Stdin os.Stdout error %s", err)
			}
			util.Logf("stdin listener done")
			cancel()
		}()
	}

	if *tcpPort != "" {
		go func() {
			if err := s.TCPService(ctx, *tcpPort); err != nil {
				panic(fmt.Errorf("Service.TCPService error %s", err))
			}
		}()
	}

	if *httpPort != "" {

		go func() {
			if *wsService {
				log.Printf("WebSockets service starting")
				if err := s.WebSocketService(ctx); err != nil {
					panic(err)
				}
			}

			if *httpDir != "" {
				log.Printf("HTTP serving files in %s", *httpDir)
				fs := http.FileServer(http.Dir(*httpDir))
				http.Handle("/static/", http.StripPrefix("/static", fs))
			}

			log.Printf("HTTP service on %s", *httpPort)
			if err = s.HTTPServer(ctx, *httpPort); err != nil {
				panic(err)
			}
		}()
	}

	<-ctx.Done()
}

func monitor(ctx context.Context, c chan error, tag string) {
	go func() {
		log.Printf("monitoring %s", tag)
	LOOP:
		for {
			select {
			case <-ctx.Done():
				break LOOP
			case err := <-c:
				log.Printf("%s %s", tag, err)
			}
		}
		log.Printf("halting monitoring of %s", tag)
	}()
}

var changesPage = regexp.MustCompile(`/changes/([-a-zA-Z0-9_]+)\.html`)

func (s *Service) HTTPServer(ctx context.Context, port string) error {
	complain := func(w http.ResponseWriter, x interface{}, status int) {
		w.WriteHeader(status)
		fmt.Fprintf(w, `{"error":"%s"}`+"\n", x)
	}

	http.Handle("/goroutines", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pprof.Lookup("goroutine").WriteTo(w, 1)
	}))

	http.Handle("/api", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		js, err := io.ReadAll(r.Body)
		if err != nil {
			complain(w, err, http.StatusBadRequest)
			return
		}
		if err := r.Body.Close(); err != nil {
			log.Printf("Service.HTTPServer warning on Body.Close(): %v", err)
		}

		var op SOp
		if err := json.Unmarshal(js, &op); err != nil {
			complain(w, err, http.StatusBadRequest)
			return
		}
		if err = op.Do(ctx, s); err != nil {
			complain(w, err, http.StatusInternalServerError)
			return
		}
		js, err = json.Marshal(&op)
		if err != nil {
			complain(w, err, http.StatusInternalServerError)
		}
		if _, err = w.Write(js); err != nil {
			log.Printf("Service.HTTPServer warning on Write(): %v", err)
		}
	}))

	http.Handle("/registry", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		js, err := json.Marshal(s.Registry())
		if err != nil {
			complain(w, err, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err = w.Write(js); err != nil {
			log.Printf("Service.HTTPServer warning on Write(): %v", err)
		}
	}))

	http.HandleFunc("/changes/", func(w http.ResponseWriter, r *http.Request) {
		ss := changesPage.FindStringSubmatch(r.RequestURI)
		if ss == nil {
			fmt.Fprintf(w, "No exchange name in %s; try /changes/XNYS.html", r.RequestURI)
			return
		}
		cs, have := s.registry.Get(ss[1])
		if !have {
			complain(w, fmt.Sprintf("unknown exchange \"%s\"", ss[1]), http.StatusNotFound)
			return
		}
		if err := tools.RenderChangesPage(ss[1], cs.Copy(), w, nil); err != nil {
			fmt.Fprintf(w, "RenderChangesPage error: %s", err)
		}
	})

	return http.ListenAndServe(port, nil)
}

// Boot reads initial ops, one JSON object per line, from the given
// file.  Lines starting with "#" or "//" are comments.
func (s *Service) Boot(ctx context.Context, filename string) error {
	in, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer in.Close()

	r := bufio.NewReader(in)
	for {
		line, err := r.ReadBytes('\n')
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		line = bytes.TrimSpace(line)
		if len(line) == 0 || bytes.HasPrefix(line, []byte("#")) || bytes.HasPrefix(line, []byte("//")) {
			continue
		}
		var op SOp
		if err = json.Unmarshal(line, &op); err != nil {
			return err
		}
		if err := op.Do(ctx, s); err != nil {
			return err
		}
	}

	return nil
}
