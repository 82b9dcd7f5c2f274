package docker

import "testing"

func TestParsePortMappings(t *testing.T) {
	got := ParsePortMappings([]string{"127.0.0.1::9222", "8080:80/udp", "bogus"})
	if len(got) != 2 {
		t.Fatalf("got %d mappings, want 2: %+v", len(got), got)
	}
	if got[0] != (PortMapping{HostIP: "127.0.0.1", Host: "", Container: "9222", Protocol: "tcp"}) {
		t.Errorf("mapping 0 = %+v", got[0])
	}
	if got[1] != (PortMapping{Host: "8080", Container: "80", Protocol: "udp"}) {
		t.Errorf("mapping 1 = %+v", got[1])
	}
}

func TestNatPortDefaultsToTCP(t *testing.T) {
	if p := natPort("9222", ""); string(p) != "9222/tcp" {
		t.Errorf("natPort = %q", p)
	}
}
