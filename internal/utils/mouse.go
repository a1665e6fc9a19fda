package utils

import (
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// GlobalPointer reads the X11 pointer position from the root window. It is
// used when the renderer sits behind other windows (wallpaper mode) and never
// receives pointer events itself.
type GlobalPointer struct {
	conn *xgb.Conn
	root xproto.Window
}

func OpenGlobalPointer() (*GlobalPointer, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}

	setup := xproto.Setup(conn)
	return &GlobalPointer{
		conn: conn,
		root: setup.DefaultScreen(conn).Root,
	}, nil
}

// Position returns root window coordinates in pixels.
func (p *GlobalPointer) Position() (int, int, error) {
	reply, err := xproto.QueryPointer(p.conn, p.root).Reply()
	if err != nil {
		return 0, 0, err
	}
	return int(reply.RootX), int(reply.RootY), nil
}

func (p *GlobalPointer) Close() {
	if p.conn != nil {
		p.conn.Close()
		p.conn = nil
	}
}
