package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/sendero-labs/sendero/pkg/concurrent"
	"github.com/sendero-labs/sendero/pkg/datastructure"
)

type User struct {
	io   sync.Mutex
	conn io.ReadWriteCloser

	id  uint
	hub *Hub
}

func (u *User) readCommand() (*alertStreamCommand, error) {
	u.io.Lock()
	defer u.io.Unlock()

	h, r, err := wsutil.NextReader(u.conn, ws.StateServerSide)
	if err != nil {
		return nil, err
	}
	if h.OpCode.IsControl() {
		return nil, wsutil.ControlFrameHandler(u.conn, ws.StateServerSide)(h, r)
	}

	cmd := &alertStreamCommand{}
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(cmd); err != nil {
		return nil, err
	}
	return cmd, nil
}

// HandleCommand serves one client message. the alert stream is push driven,
// the only commands a client sends are keepalive pings and on-demand status
// probes.
func (u *User) HandleCommand() error {
	cmd, err := u.readCommand()
	if err != nil {
		u.conn.Close()
		return err
	}

	if cmd == nil {
		return nil
	}

	validate := validator.New()

	if err := validate.Struct(cmd); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		vvString := []string{}
		for _, v := range vv {
			vvString = append(vvString, v.Error())
		}
		errResp := envelope{"error": map[string]string{
			"code":    http.StatusText(http.StatusBadRequest),
			"message": fmt.Sprintf("validation error: %v", vvString),
		}}
		return u.write(errResp)
	}

	switch cmd.Action {
	case "ping":
		return u.write(envelope{"data": map[string]interface{}{
			"pong":        true,
			"server_time": time.Now().Format(time.RFC3339),
		}})
	case "status":
		return u.write(envelope{"data": map[string]interface{}{
			"subscribers": u.hub.NumUsers(),
		}})
	default:
		errResp := envelope{"error": map[string]string{
			"code":    http.StatusText(http.StatusBadRequest),
			"message": fmt.Sprintf("unknown action %q", cmd.Action),
		}}
		return u.write(errResp)
	}
}

func (u *User) write(x interface{}) error {
	w := wsutil.NewWriter(u.conn, ws.StateServerSide, ws.OpText)
	encoder := json.NewEncoder(w)

	u.io.Lock()
	defer u.io.Unlock()

	if err := encoder.Encode(x); err != nil {
		return err
	}

	return w.Flush()
}

// Hub tracks connected alert-stream clients and fans high impact incident
// alerts out to all of them through the shared goroutine pool.
type Hub struct {
	mu  sync.RWMutex
	seq uint
	us  []*User
	ns  map[uint]*User

	pool *concurrent.Pool
}

func NewHub(pool *concurrent.Pool) *Hub {
	hub := &Hub{
		pool: pool,
		ns:   make(map[uint]*User),
		us:   make([]*User, 0),
	}

	return hub
}

func (h *Hub) Register(conn net.Conn) *User {
	user := &User{
		hub:  h,
		conn: conn,
	}

	h.mu.Lock()
	user.id = h.seq
	h.ns[user.id] = user
	h.us = append(h.us, user)

	h.seq++
	h.mu.Unlock()

	return user
}

func (h *Hub) Remove(user *User) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, oki := h.ns[user.id]; !oki {
		return
	}
	delete(h.ns, user.id)

	i := sort.Search(len(h.us), func(i int) bool {
		return h.us[i].id >= user.id
	})

	newUs := make([]*User, len(h.us)-1)
	copy(newUs[:i], h.us[:i])
	copy(newUs[i:], h.us[i+1:])
	h.us = newUs
}

func (h *Hub) RemoveAllUser() {
	h.mu.RLock()
	users := make([]*User, len(h.us))
	copy(users, h.us)
	h.mu.RUnlock()

	for _, user := range users {
		h.Remove(user)
	}
}

func (h *Hub) NumUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.us)
}

// Broadcast pushes one incident alert to every connected client. writes run
// on the pool so a slow client never stalls the feed scheduler, a failed
// write drops the client.
func (h *Hub) Broadcast(incident datastructure.Incident) {
	message := envelope{"data": NewIncidentAlertMessage(incident)}

	h.mu.RLock()
	users := make([]*User, len(h.us))
	copy(users, h.us)
	h.mu.RUnlock()

	for _, user := range users {
		u := user
		h.pool.Schedule(func() {
			if err := u.write(message); err != nil {
				u.conn.Close()
				h.Remove(u)
			}
		})
	}
}
