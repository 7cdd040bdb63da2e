package proxy

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/zhouzirui/wellness/backend/internal/model/chat"
)

const (
	defaultPongWait = 60 * time.Second
	writeWait       = 10 * time.Second
)

// WebSocketHandler 通过 WebSocket 提供流式对话
type WebSocketHandler struct {
	runtime  Runtime
	logger   *zap.Logger
	upgrader websocket.Upgrader
	pongWait time.Duration
}

// NewWebSocketHandler 创建WebSocket处理器
func NewWebSocketHandler(runtime Runtime, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		runtime: runtime,
		logger:  logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		pongWait: defaultPongWait,
	}
}

type outgoingMessage struct {
	Type         string `json:"type"`
	ConnectionID string `json:"connectionId"`
	Data         any    `json:"data,omitempty"`
	Timestamp    int64  `json:"timestamp"`
}

// handleWebSocket 每个客户端帧是一条对话请求，按 delta* → end 应答，失败时发送 error。
func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	connID := uuid.NewString()
	logger := h.logger.With(zap.String("connection_id", connID))
	logger.Info("websocket connected")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	_ = conn.SetReadDeadline(time.Now().Add(h.pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.pongWait))
	})
	go h.pingLoop(ctx, conn)

	h.send(conn, logger, outgoingMessage{Type: "connected", ConnectionID: connID})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read failed", zap.Error(err))
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(h.pongWait))

		var req chat.ProxyRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			h.sendError(conn, logger, connID, errInvalidBody)
			continue
		}
		if req.Message == "" {
			h.sendError(conn, logger, connID, errMessageMissing)
			continue
		}

		// 生成期间不读取连接，pong 无法续期读超时，先清除再在应答后重新设置。
		_ = conn.SetReadDeadline(time.Time{})
		h.answer(ctx, conn, logger, connID, req)
		_ = conn.SetReadDeadline(time.Now().Add(h.pongWait))
	}
}

func (h *WebSocketHandler) answer(ctx context.Context, conn *websocket.Conn, logger *zap.Logger, connID string, req chat.ProxyRequest) {
	stream, modelName, err := h.runtime.Stream(ctx, req)
	if err != nil {
		logger.Error("websocket stream request failed", zap.Error(err))
		h.sendError(conn, logger, connID, errRuntimeFailed)
		return
	}
	defer stream.Close()

	content, err := drain(stream, func(delta string) bool {
		return h.send(conn, logger, outgoingMessage{
			Type:         "delta",
			ConnectionID: connID,
			Data:         map[string]string{"text": delta},
		})
	})
	if err != nil {
		logger.Error("websocket stream interrupted", zap.Error(err))
		h.sendError(conn, logger, connID, errRuntimeFailed)
		return
	}

	h.send(conn, logger, outgoingMessage{
		Type:         "end",
		ConnectionID: connID,
		Data:         chat.ProxyReply{Response: content, Model: modelName},
	})
}

func (h *WebSocketHandler) send(conn *websocket.Conn, logger *zap.Logger, msg outgoingMessage) bool {
	msg.Timestamp = time.Now().Unix()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		logger.Debug("websocket write failed", zap.String("type", msg.Type), zap.Error(err))
		return false
	}
	return true
}

func (h *WebSocketHandler) sendError(conn *websocket.Conn, logger *zap.Logger, connID, message string) {
	h.send(conn, logger, outgoingMessage{
		Type:         "error",
		ConnectionID: connID,
		Data:         map[string]string{"message": message},
	})
}

// pingLoop 定期发送ping消息
func (h *WebSocketHandler) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(h.pongWait * 9 / 10)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// WriteControl may run alongside WriteJSON.
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
