package mpd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/theirix/dmix/internal/models"
	"github.com/theirix/dmix/internal/shared"
)

// Client is a connection to a music player daemon. Commands are serialized
// over the single connection, so a Client is safe for concurrent use. A
// connection lost mid-command is dropped and redialed on the next call.
type Client struct {
	addr     string
	password string
	timeout  time.Duration

	mu      sync.Mutex
	conn    net.Conn
	r       *bufio.Reader
	version string
}

// Dial connects to the daemon at addr, performs the protocol handshake and
// authenticates when password is non-empty.
func Dial(addr, password string, timeout time.Duration) (*Client, error) {
	c := &Client{addr: addr, password: password, timeout: timeout}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.connectLocked(); err != nil {
		return nil, err
	}
	return c, nil
}

// DialConfig connects using the server section of the application config.
func DialConfig(cfg shared.ServerConfig) (*Client, error) {
	return Dial(cfg.Addr(), cfg.Password, cfg.Timeout())
}

// NewClient creates a client without connecting. The first command dials,
// so surfaces that may never talk to the daemon start instantly and report
// connection failures per call.
func NewClient(cfg shared.ServerConfig) *Client {
	return &Client{addr: cfg.Addr(), password: cfg.Password, timeout: cfg.Timeout()}
}

// connectLocked dials and handshakes. Callers hold c.mu.
func (c *Client) connectLocked() error {
	conn, err := net.DialTimeout("tcp", c.addr, c.timeout)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrDaemonUnavailable, err)
	}

	r := bufio.NewReader(conn)
	conn.SetDeadline(time.Now().Add(c.timeout))

	banner, err := r.ReadString('\n')
	if err != nil {
		conn.Close()
		return fmt.Errorf("reading handshake: %w", err)
	}
	version, ok := strings.CutPrefix(strings.TrimSpace(banner), "OK MPD ")
	if !ok {
		conn.Close()
		return fmt.Errorf("%w: %q", shared.ErrHandshake, strings.TrimSpace(banner))
	}

	c.conn = conn
	c.r = r
	c.version = version

	if c.password != "" {
		if _, err := c.roundTrip("password " + quote(c.password)); err != nil {
			c.drop()
			return fmt.Errorf("%w: %v", shared.ErrPermission, err)
		}
	}

	return nil
}

// drop closes and forgets the connection. Callers hold c.mu.
func (c *Client) drop() {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
		c.r = nil
	}
}

// roundTrip writes one command and reads its response. Callers hold c.mu and
// have set deadlines on the connection.
func (c *Client) roundTrip(cmd string) ([]pair, error) {
	if _, err := fmt.Fprintf(c.conn, "%s\n", cmd); err != nil {
		return nil, fmt.Errorf("sending command: %w", err)
	}

	var pairs []pair
	for {
		line, err := c.r.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("reading response: %w", err)
		}
		line = strings.TrimSuffix(line, "\n")

		if line == "OK" {
			return pairs, nil
		}
		if ackErr, ok := parseAck(line); ok {
			return nil, ackErr
		}
		if p, ok := parsePair(line); ok {
			pairs = append(pairs, p)
		}
	}
}

// exec runs one command against the daemon, redialing first when the
// connection was previously lost. ACK responses keep the connection alive;
// transport errors drop it.
func (c *Client) exec(ctx context.Context, cmd string) ([]pair, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		if err := c.connectLocked(); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	c.conn.SetDeadline(deadline)

	pairs, err := c.roundTrip(cmd)
	if err != nil {
		var cmdErr *CommandError
		if !errors.As(err, &cmdErr) {
			c.drop()
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				return nil, fmt.Errorf("%w: %v", shared.ErrTimeout, err)
			}
		}
		return nil, err
	}
	return pairs, nil
}

// Close ends the session. The daemon treats close as fire-and-forget, so the
// farewell is best effort.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	fmt.Fprintf(c.conn, "close\n")
	err := c.conn.Close()
	c.conn = nil
	c.r = nil
	return err
}

// Version reports the protocol version from the handshake banner.
func (c *Client) Version() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

// Ping checks that the daemon still answers.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.exec(ctx, "ping")
	return err
}

// Status fetches the daemon's player and queue state.
func (c *Client) Status(ctx context.Context) (*models.Status, error) {
	pairs, err := c.exec(ctx, "status")
	if err != nil {
		return nil, err
	}
	return statusFromPairs(pairs), nil
}

// Stats fetches library-wide counters.
func (c *Client) Stats(ctx context.Context) (*models.Stats, error) {
	pairs, err := c.exec(ctx, "stats")
	if err != nil {
		return nil, err
	}
	return statsFromPairs(pairs), nil
}

// CurrentSong fetches the playing or selected queue entry. Returns nil with
// no error when the queue has no current song.
func (c *Client) CurrentSong(ctx context.Context) (*models.Song, error) {
	pairs, err := c.exec(ctx, "currentsong")
	if err != nil {
		return nil, err
	}
	songs := songsFromPairs(pairs)
	if len(songs) == 0 {
		return nil, nil
	}
	return songs[0], nil
}

// Queue fetches the full play queue in order.
func (c *Client) Queue(ctx context.Context) ([]*models.Song, error) {
	pairs, err := c.exec(ctx, "playlistinfo")
	if err != nil {
		return nil, err
	}
	return songsFromPairs(pairs), nil
}

// QueueChanges fetches the queue entries changed since the given queue
// version, each carrying its current position and id.
func (c *Client) QueueChanges(ctx context.Context, version int64) ([]*models.Song, error) {
	pairs, err := c.exec(ctx, fmt.Sprintf("plchanges %d", version))
	if err != nil {
		return nil, err
	}
	return songsFromPairs(pairs), nil
}

// Add appends a database URI to the queue. Directories are added
// recursively.
func (c *Client) Add(ctx context.Context, uri string) error {
	_, err := c.exec(ctx, "add "+quote(uri))
	return err
}

// AddID appends a single song to the queue and returns the id the daemon
// assigned to it.
func (c *Client) AddID(ctx context.Context, uri string) (int, error) {
	pairs, err := c.exec(ctx, "addid "+quote(uri))
	if err != nil {
		return -1, err
	}
	for _, p := range pairs {
		if p.key == "Id" {
			return atoi(p.value, -1), nil
		}
	}
	return -1, fmt.Errorf("%w: addid response missing Id", shared.ErrDaemonRequest)
}

// DeleteID removes the queue entry with the given id.
func (c *Client) DeleteID(ctx context.Context, id int) error {
	_, err := c.exec(ctx, fmt.Sprintf("deleteid %d", id))
	return err
}

// DeletePosition removes the queue entry at the given position.
func (c *Client) DeletePosition(ctx context.Context, pos int) error {
	_, err := c.exec(ctx, fmt.Sprintf("delete %d", pos))
	return err
}

// ClearQueue empties the play queue.
func (c *Client) ClearQueue(ctx context.Context) error {
	_, err := c.exec(ctx, "clear")
	return err
}

// Save stores the current queue as a playlist under the given name.
func (c *Client) Save(ctx context.Context, name string) error {
	_, err := c.exec(ctx, "save "+quote(name))
	return err
}

// Play starts playback at the given queue position, or resumes the current
// song when pos is negative.
func (c *Client) Play(ctx context.Context, pos int) error {
	cmd := "play"
	if pos >= 0 {
		cmd = fmt.Sprintf("play %d", pos)
	}
	_, err := c.exec(ctx, cmd)
	return err
}

// PlayID starts playback of the queue entry with the given id, or resumes
// when id is negative.
func (c *Client) PlayID(ctx context.Context, id int) error {
	cmd := "playid"
	if id >= 0 {
		cmd = fmt.Sprintf("playid %d", id)
	}
	_, err := c.exec(ctx, cmd)
	return err
}

// Pause pauses or resumes playback.
func (c *Client) Pause(ctx context.Context, on bool) error {
	flag := "0"
	if on {
		flag = "1"
	}
	_, err := c.exec(ctx, "pause "+flag)
	return err
}

// Stop halts playback.
func (c *Client) Stop(ctx context.Context) error {
	_, err := c.exec(ctx, "stop")
	return err
}

// Next skips to the next queue entry.
func (c *Client) Next(ctx context.Context) error {
	_, err := c.exec(ctx, "next")
	return err
}

// Previous steps back to the previous queue entry.
func (c *Client) Previous(ctx context.Context) error {
	_, err := c.exec(ctx, "previous")
	return err
}

// SetVolume sets the output volume, 0 to 100.
func (c *Client) SetVolume(ctx context.Context, volume int) error {
	_, err := c.exec(ctx, fmt.Sprintf("setvol %d", volume))
	return err
}

// SeekCur seeks to an absolute time within the current song.
func (c *Client) SeekCur(ctx context.Context, seconds float64) error {
	_, err := c.exec(ctx, fmt.Sprintf("seekcur %.3f", seconds))
	return err
}

// ListPlaylists fetches the daemon's stored playlists.
func (c *Client) ListPlaylists(ctx context.Context) ([]models.Playlist, error) {
	pairs, err := c.exec(ctx, "listplaylists")
	if err != nil {
		return nil, err
	}
	return playlistsFromPairs(pairs), nil
}

// PlaylistSongs fetches the songs of a stored playlist in order.
func (c *Client) PlaylistSongs(ctx context.Context, name string) ([]*models.Song, error) {
	pairs, err := c.exec(ctx, "listplaylistinfo "+quote(name))
	if err != nil {
		return nil, err
	}
	return songsFromPairs(pairs), nil
}

// Load appends a stored playlist to the play queue.
func (c *Client) Load(ctx context.Context, name string) error {
	_, err := c.exec(ctx, "load "+quote(name))
	return err
}

// ListAll fetches every song under the given database URI, or the whole
// library when uri is empty. Large libraries can exceed the daemon's output
// buffer; prefer walking with [Client.ListInfo].
func (c *Client) ListAll(ctx context.Context, uri string) ([]*models.Song, error) {
	cmd := "listallinfo"
	if uri != "" {
		cmd += " " + quote(uri)
	}
	pairs, err := c.exec(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return songsFromPairs(pairs), nil
}

// ListInfo fetches the immediate contents of a database directory: its
// subdirectories and its songs.
func (c *Client) ListInfo(ctx context.Context, uri string) ([]string, []*models.Song, error) {
	cmd := "lsinfo"
	if uri != "" {
		cmd += " " + quote(uri)
	}
	pairs, err := c.exec(ctx, cmd)
	if err != nil {
		return nil, nil, err
	}
	dirs, songs := listInfoFromPairs(pairs)
	return dirs, songs, nil
}

// Update asks the daemon to rescan its database under uri, or everything
// when uri is empty. Returns the daemon's update job id.
func (c *Client) Update(ctx context.Context, uri string) (int, error) {
	cmd := "update"
	if uri != "" {
		cmd += " " + quote(uri)
	}
	pairs, err := c.exec(ctx, cmd)
	if err != nil {
		return 0, err
	}
	for _, p := range pairs {
		if p.key == "updating_db" {
			return atoi(p.value, 0), nil
		}
	}
	return 0, fmt.Errorf("%w: update response missing job id", shared.ErrDaemonRequest)
}

// Idle blocks until the daemon reports a change in one of the given
// subsystems, or in any subsystem when none are named. Cancelling ctx sends
// noidle, which makes the daemon finish the pending response promptly.
//
// Idle parks the connection, so commands from other goroutines wait until it
// returns. Interactive surfaces run Idle on a dedicated client.
func (c *Client) Idle(ctx context.Context, subsystems ...string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		if err := c.connectLocked(); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cmd := "idle"
	for _, sub := range subsystems {
		cmd += " " + quote(sub)
	}

	// no deadline while parked; noidle unblocks the read
	c.conn.SetDeadline(time.Time{})
	conn := c.conn
	stop := context.AfterFunc(ctx, func() {
		conn.Write([]byte("noidle\n"))
	})
	defer stop()

	pairs, err := c.roundTrip(cmd)
	if err != nil {
		var cmdErr *CommandError
		if !errors.As(err, &cmdErr) {
			c.drop()
		}
		return nil, err
	}

	var changed []string
	for _, p := range pairs {
		if p.key == "changed" {
			changed = append(changed, p.value)
		}
	}
	if len(changed) == 0 {
		// noidle interrupt with nothing pending
		return nil, ctx.Err()
	}
	return changed, nil
}
