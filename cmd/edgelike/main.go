package main

import (
	"flag"
	"fmt"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"edgelike.dev"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func main() {
	bind := flag.String("bind", "localhost:5000", "address to bind to")
	programBackend := flag.String("program-backend", "backend", "backend name the reference program forwards to")
	backendTimeout := flag.Duration("backend-timeout", 30*time.Second, "how long a subrequest may take before it counts as unavailable")
	bestEffortLogs := flag.Bool("best-effort-logs", false, "treat log endpoint write failures as non-fatal")
	verbose := flag.Bool("v", false, "log host diagnostics")

	backends := make(backendFlags)
	flag.Var(&backends, "backend", "<name=address> specifying backends. Use an empty name to specify a catch-all backend (ex: -backend localhost:2000)")
	flag.Var(&backends, "b", "alias for -backend")

	dictionaries := make(dictionaryFlags)
	flag.Var(&dictionaries, "dictionary", "<name=file.json> specifying dictionaries. The JSON file supplied must only contain string values.")
	flag.Var(&dictionaries, "d", "alias for -dictionary")

	endpoints := make(endpointFlags)
	flag.Var(&endpoints, "logger", "<name=file> or <name> specifying log endpoints. Use name=file to log to a file, or just name to log to stdout.")

	geoFile := flag.String("geo", "", "JSON file containing IP to geo mapping for geolocation lookups")

	flag.Parse()

	if len(backends) == 0 {
		_, _ = fmt.Fprintf(flag.CommandLine.Output(), "at least one -backend is required\n")
		flag.Usage()
		os.Exit(1)
	}

	opts := []edgelike.Option{
		edgelike.WithBackendTimeout(*backendTimeout),
	}

	for name, b := range backends {
		if name == "" {
			proxy := b.proxy
			opts = append(opts, edgelike.WithDefaultBackend(func(_ string) http.Handler {
				return proxy
			}))
		} else {
			opts = append(opts, edgelike.WithBackend(name, b.proxy))
		}
	}

	for name, d := range dictionaries {
		opts = append(opts, edgelike.WithDictionaryMap(name, d.entries))
	}

	for name, l := range endpoints {
		opts = append(opts, edgelike.WithLogEndpoint(name, l.writer))
	}

	if *geoFile != "" {
		geoLookup, err := loadGeoFile(*geoFile)
		if err != nil {
			fmt.Printf("Error loading geo file: %s\n", err.Error())
			os.Exit(1)
		}
		opts = append(opts, edgelike.WithGeo(geoLookup))
	}

	if *bestEffortLogs {
		opts = append(opts, edgelike.WithBestEffortLogs())
	}

	if *verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			fmt.Printf("Error creating logger, got %s\n", err.Error())
			os.Exit(1)
		}
		defer func() { _ = log.Sync() }()
		opts = append(opts, edgelike.WithHostLogger(log))
	}

	fl := edgelike.New(edgelike.ReferenceProgram(*programBackend), opts...)

	fmt.Printf("Listening on %s\n", *bind)
	if err := http.ListenAndServe(*bind, fl); err != nil {
		fmt.Printf("Error starting server, got %s\n", err.Error())
	}
}

// backend represents a configured backend with its address and reverse proxy handler
type backend struct {
	address string
	proxy   http.Handler
}

// backendFlags implements flag.Value for parsing -backend flags
type backendFlags map[string]backend

func (f *backendFlags) String() string {
	results := make([]string, 0, len(*f))
	for name, b := range *f {
		results = append(results, fmt.Sprintf("%s=%s", name, b.address))
	}
	return strings.Join(results, ", ")
}

func (f *backendFlags) Set(v string) error {
	parts := strings.Split(v, "=")
	name, addr := "", ""
	if len(parts) == 2 {
		name = parts[0]
		addr = parts[1]
	} else if len(parts) == 1 {
		name = ""
		addr = parts[0]
	} else {
		return errors.Errorf("invalid backend %s specified", v)
	}

	// turn the address into an http/https url
	if !strings.HasPrefix(addr, "http") {
		addr = fmt.Sprintf("http://%s", addr)
	}

	dest, err := url.Parse(addr)
	if err != nil {
		return err
	}

	proxy := httputil.NewSingleHostReverseProxy(dest)

	(*f)[name] = backend{address: addr, proxy: proxy}
	return nil
}

// dictionary represents a configured dictionary and its entries
type dictionary struct {
	filename string
	entries  map[string]string
}

// dictionaryFlags implements flag.Value for parsing -dictionary flags
type dictionaryFlags map[string]dictionary

func (f *dictionaryFlags) String() string {
	results := make([]string, 0, len(*f))
	for name, dict := range *f {
		results = append(results, fmt.Sprintf("%s=%s", name, dict.filename))
	}
	return strings.Join(results, ", ")
}

func (f *dictionaryFlags) Set(v string) error {
	parts := strings.Split(v, "=")
	if len(parts) != 2 {
		return errors.Errorf("invalid dictionary %s specified", v)
	}

	name := parts[0]
	filename := parts[1]

	fd, err := os.Open(filename)
	if err != nil {
		return errors.Wrapf(err, "error opening dictionary file %s", filename)
	}
	defer fd.Close()

	entries := map[string]string{}
	if err := json.NewDecoder(fd).Decode(&entries); err != nil {
		return errors.Wrapf(err, "error parsing dictionary file %s", filename)
	}

	(*f)[name] = dictionary{filename: filename, entries: entries}
	return nil
}

// endpointEntry represents a configured log endpoint
type endpointEntry struct {
	filename string
	writer   *os.File
}

// endpointFlags implements flag.Value for parsing -logger flags
type endpointFlags map[string]endpointEntry

func (f *endpointFlags) String() string {
	results := make([]string, 0, len(*f))
	for name, l := range *f {
		if l.filename != "" {
			results = append(results, fmt.Sprintf("%s=%s", name, l.filename))
		} else {
			results = append(results, name)
		}
	}
	return strings.Join(results, ", ")
}

func (f *endpointFlags) Set(v string) error {
	parts := strings.SplitN(v, "=", 2)
	name := parts[0]
	filename := ""
	writer := os.Stdout

	if len(parts) == 2 {
		filename = parts[1]
		fd, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return errors.Wrapf(err, "error opening logger file %s", filename)
		}
		writer = fd
	}

	(*f)[name] = endpointEntry{filename: filename, writer: writer}
	return nil
}

// loadGeoFile loads a JSON file mapping IP addresses and CIDR ranges to geo records. Exact IP
// matches win over CIDR matches; among CIDRs the most specific wins. Unknown addresses fall back
// to the default fixture record.
func loadGeoFile(filename string) (func(ip net.IP) edgelike.Geo, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "error reading geo file")
	}

	var geoData map[string]edgelike.Geo
	if err := json.Unmarshal(data, &geoData); err != nil {
		return nil, errors.Wrap(err, "error parsing geo file")
	}

	type geoEntry struct {
		network *net.IPNet
		ip      net.IP
		geo     edgelike.Geo
	}

	entries := make([]geoEntry, 0, len(geoData))
	for key, geo := range geoData {
		if _, network, cerr := net.ParseCIDR(key); cerr == nil {
			entries = append(entries, geoEntry{network: network, geo: geo})
			continue
		}

		if ip := net.ParseIP(key); ip != nil {
			entries = append(entries, geoEntry{ip: ip, geo: geo})
			continue
		}

		return nil, errors.Errorf("invalid IP or CIDR in geo file: %s", key)
	}

	return func(ip net.IP) edgelike.Geo {
		for _, entry := range entries {
			if entry.ip != nil && entry.ip.Equal(ip) {
				return entry.geo
			}
		}

		var best *geoEntry
		var bestMaskSize int
		for i := range entries {
			entry := &entries[i]
			if entry.network != nil && entry.network.Contains(ip) {
				maskSize, _ := entry.network.Mask.Size()
				if best == nil || maskSize > bestMaskSize {
					best = entry
					bestMaskSize = maskSize
				}
			}
		}

		if best != nil {
			return best.geo
		}

		return edgelike.DefaultGeo(ip)
	}, nil
}
