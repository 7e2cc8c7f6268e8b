package main

import (
	"bufio"
	"flag"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/iov-one/custody/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
)

func init() {
	// Not part of the map literal, serve refers to commands.
	commands["serve"] = cmdServe
}

func cmdMetrics(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = usage(fl, `
Print the metrics collected by this process in the prometheus text format.
Counters only cover operations executed by the current process, so this
command is most useful as a line of a serve script.
`)
	fl.Parse(args)
	return writeMetrics(output, prometheus.DefaultGatherer)
}

// writeMetrics encodes all metric families known to the gatherer using the
// prometheus text exposition format.
func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return errors.Wrapf(errors.ErrState, "gather metrics: %s", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return errors.Wrapf(errors.ErrInput, "encode %s: %s", mf.GetName(), err)
		}
	}
	return nil
}

// metricsMux exposes the default prometheus registry under /metrics.
func metricsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func cmdServe(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = usage(fl, `
Execute commands read from the input, one per line, within a single
process. Empty lines and lines starting with # are ignored. Processing
stops at the first failing command.

While the input is processed, metrics of all executed commands are served
over HTTP at /metrics of the listen address.

  $ custodyd serve -listen 127.0.0.1:9090 <<EOF
  deposit -amount 1000
  propose -from $ALICE -to $CAROL -amount 300
  approve -from $BOB -id 0
  metrics
  EOF
`)
	var (
		listenFl = fl.String("listen", env("CUSTODY_METRICS_ADDR", ""), "Address to serve metrics on. Metrics are not served if empty.")
	)
	fl.Parse(args)

	if *listenFl != "" {
		ln, err := net.Listen("tcp", *listenFl)
		if err != nil {
			return errors.Wrapf(errors.ErrInput, "listen on %q: %s", *listenFl, err)
		}
		srv := &http.Server{Handler: metricsMux()}
		go srv.Serve(ln)
		defer srv.Close()
	}

	if input == nil {
		return nil
	}
	scanner := bufio.NewScanner(input)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if fields[0] == "serve" {
			return errors.Wrapf(errors.ErrInput, "line %d: serve cannot be nested", line)
		}
		run, ok := commands[fields[0]]
		if !ok {
			return errors.Wrapf(errors.ErrInput, "line %d: unknown command %q", line, fields[0])
		}
		if err := run(nil, output, fields[1:]); err != nil {
			return errors.Wrapf(err, "line %d", line)
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrapf(errors.ErrInput, "read input: %s", err)
	}
	return nil
}
