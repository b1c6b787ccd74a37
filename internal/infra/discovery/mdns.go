// Package discovery advertises and finds drawr servers on the local network.
package discovery

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/mdns"
	"github.com/sirupsen/logrus"
)

const ServiceType = "_drawr._tcp"

// Advertiser owns a running mDNS responder.
type Advertiser struct {
	server *mdns.Server
}

// Advertise announces the server on port. instance defaults to the hostname.
func Advertise(instance string, port int) (*Advertiser, error) {
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid port %d", port)
	}
	if instance == "" {
		host, err := os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("could not get hostname: %w", err)
		}
		instance = host
	}

	service, err := mdns.NewMDNSService(instance, ServiceType, "", "", port, nil, []string{"drawr"})
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	logrus.WithFields(logrus.Fields{"instance": instance, "port": port}).Info("mDNS advertisement started")
	return &Advertiser{server: server}, nil
}

func (a *Advertiser) Shutdown() error {
	if a == nil || a.server == nil {
		return nil
	}
	return a.server.Shutdown()
}

// Browse collects "host:port" addresses of servers answering within timeout.
func Browse(timeout time.Duration) ([]string, error) {
	entries := make(chan *mdns.ServiceEntry, 16)
	done := make(chan []string)
	go func() {
		var addrs []string
		seen := make(map[string]bool)
		for e := range entries {
			if addr := entryAddr(e); addr != "" && !seen[addr] {
				seen[addr] = true
				addrs = append(addrs, addr)
			}
		}
		done <- addrs
	}()

	params := mdns.DefaultParams(ServiceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	err := mdns.Query(params)
	close(entries)
	addrs := <-done
	if err != nil {
		return addrs, fmt.Errorf("mdns query: %w", err)
	}
	return addrs, nil
}

func entryAddr(e *mdns.ServiceEntry) string {
	if e == nil || e.AddrV4 == nil || e.Port == 0 {
		return ""
	}
	return net.JoinHostPort(e.AddrV4.String(), strconv.Itoa(e.Port))
}
