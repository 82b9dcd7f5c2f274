package query

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"net"
	"testing"
	"time"
)

// serveUDP answers each datagram with whatever reply returns, until the test
// ends. A nil reply sends nothing.
func serveUDP(t *testing.T, reply func(req []byte) []byte) Address {
	t.Helper()
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })

	go func() {
		buf := make([]byte, 1400)
		for {
			n, from, err := conn.ReadFrom(buf)
			if err != nil {
				return
			}
			if out := reply(append([]byte(nil), buf[:n]...)); out != nil {
				conn.WriteTo(out, from)
			}
		}
	}()

	addr, err := ParseAddress(conn.LocalAddr().String())
	if err != nil {
		t.Fatal(err)
	}
	return addr
}

type testPlayer struct {
	name  string
	score int32
	secs  float32
}

func playerReply(players ...testPlayer) []byte {
	var b bytes.Buffer
	b.Write([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0x44, byte(len(players))})
	for i, p := range players {
		b.WriteByte(byte(i))
		b.WriteString(p.name)
		b.WriteByte(0)
		binary.Write(&b, binary.LittleEndian, p.score)
		binary.Write(&b, binary.LittleEndian, math.Float32bits(p.secs))
	}
	return b.Bytes()
}

var challengeReply = []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x41, 0x0A, 0x0B, 0x0C, 0x0D}

func TestPlayersNegativeScore(t *testing.T) {
	addr := serveUDP(t, func(req []byte) []byte {
		if len(req) < 9 || req[4] != 0x55 {
			return nil
		}
		if bytes.Equal(req[5:9], []byte{0xFF, 0xFF, 0xFF, 0xFF}) {
			return challengeReply
		}
		return playerReply(
			testPlayer{"negative", -1, 10},
			testPlayer{"positive", 3, 20},
		)
	})

	players, err := NewA2SQuerier(2*time.Second).Players(context.Background(), addr)
	if err != nil {
		t.Fatal(err)
	}
	if len(players) != 2 || players[0].Score != -1 || players[1].Score != 3 {
		t.Fatalf("players = %+v", players)
	}

	sorted := SortedPlayers(players)
	if sorted[0].Name != "positive" || sorted[1].Name != "negative" {
		t.Errorf("order = %s, %s", sorted[0].Name, sorted[1].Name)
	}
}

func TestPingCountsOneExchange(t *testing.T) {
	const delay = 50 * time.Millisecond
	requests := make(chan []byte, 4)
	addr := serveUDP(t, func(req []byte) []byte {
		requests <- req
		time.Sleep(delay)
		return challengeReply
	})

	d, err := NewA2SQuerier(2 * time.Second).ping(addr)
	if err != nil {
		t.Fatal(err)
	}
	if d < delay {
		t.Errorf("ping = %v, want at least %v", d, delay)
	}
	if got := <-requests; !bytes.Equal(got, infoRequest) {
		t.Errorf("request = % x", got)
	}
	if len(requests) != 0 {
		t.Error("ping should send a single request")
	}
}

func TestPingTimeout(t *testing.T) {
	addr := serveUDP(t, func([]byte) []byte { return nil })
	if _, err := NewA2SQuerier(100 * time.Millisecond).ping(addr); err == nil {
		t.Error("expected timeout")
	}
}
