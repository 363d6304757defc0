package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	apperrors "github.com/GriffinCanCode/ratiolens/backend/platform/internal/errors"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/frame"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/orchestrator/session"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/trace"
)

// wsConn is one WebSocket client with its own analysis session.
type wsConn struct {
	srv     *Server
	conn    *websocket.Conn
	sess    *session.Session
	limiter *rateLimiter
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.origins,
	})
	if err != nil {
		trace.Logger(r.Context()).Error("websocket accept error", "error", err)
		return
	}
	defer func() { _ = conn.Close(websocket.StatusNormalClosure, "") }()
	conn.SetReadLimit(MaxMessageBytes)

	sess := s.mgr.OpenSession()
	defer s.mgr.CloseSession(sess.ID())

	s.addConn(conn)
	defer s.removeConn(conn)

	ctx := r.Context()
	log := trace.Logger(ctx).With("session", sess.ID())
	log.Info("websocket connected", "remote", r.RemoteAddr)

	c := &wsConn{srv: s, conn: conn, sess: sess, limiter: newRateLimiter(s.maxRate)}
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			log.Debug("websocket read error", "error", err)
			return
		}

		switch typ {
		case websocket.MessageBinary:
			c.handleFrame(ctx, data, time.Now())
		case websocket.MessageText:
			c.handleControl(ctx, data)
		}
	}
}

func (c *wsConn) handleFrame(ctx context.Context, data []byte, now time.Time) {
	if !c.limiter.allow(now) {
		trace.Logger(ctx).Warn("frame rate limit exceeded", "session", c.sess.ID())
		c.writeError(ctx, apperrors.New(apperrors.RateLimited, "frame rate limit exceeded"))
		return
	}

	f, ts, err := ParseFrame(data)
	if err != nil {
		c.writeError(ctx, err)
		return
	}
	if f.Width > c.srv.width {
		f = frame.FromImage(f.Image(), c.srv.width)
	}

	out, err := c.sess.Process(ctx, f, ts)
	if err != nil {
		c.writeError(ctx, err)
		return
	}
	if !out.Publish {
		return
	}
	c.write(ctx, ResultMessage{Type: TypeResult, Session: c.sess.ID(), Result: out.Result})
	if out.Perfect {
		c.write(ctx, ResultMessage{Type: TypePerfect, Session: c.sess.ID(), Result: out.Result})
	}
}

func (c *wsConn) handleControl(ctx context.Context, data []byte) {
	var base Message
	if err := json.Unmarshal(data, &base); err != nil {
		c.writeError(ctx, apperrors.Wrap(err, apperrors.InvalidArgument, "malformed message"))
		return
	}
	if tc, ok := trace.ExtractFromJSON(data); ok {
		ctx = trace.WithContext(ctx, tc)
	}

	switch base.Type {
	case TypeSettings:
		var req SettingsRequest
		if err := json.Unmarshal(data, &req); err != nil {
			c.writeError(ctx, apperrors.Wrap(err, apperrors.InvalidArgument, "malformed settings message"))
			return
		}
		applied, err := c.sess.ModifySettings(overlay(req.Settings))
		if err != nil {
			c.writeError(ctx, err)
			return
		}
		trace.Logger(ctx).Info("settings updated", "session", c.sess.ID())
		c.write(ctx, SettingsMessage{Type: TypeSettings, Settings: applied})
	case TypeReset:
		c.sess.Reset()
		c.write(ctx, Message{Type: TypeReset})
	default:
		c.writeError(ctx, apperrors.Newf(apperrors.InvalidArgument, "unknown message type %q", base.Type))
	}
}

func (c *wsConn) write(ctx context.Context, msg any) {
	ctx, cancel := context.WithTimeout(ctx, WriteTimeout)
	defer cancel()
	if err := wsjson.Write(ctx, c.conn, msg); err != nil {
		trace.Logger(ctx).Debug("websocket write error", "error", err)
	}
}

func (c *wsConn) writeError(ctx context.Context, err error) {
	c.write(ctx, errorMessage(err))
}
