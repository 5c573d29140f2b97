package models

const (
	BrowserCommandConnect = "connect"
	BrowserCommandOpenURL = "open_url"

	BrowserReplyConnectResult = "connect_result"
)

// BrowserCommand is written to the page that hosts the injected wallet globals.
type BrowserCommand struct {
	Type   string `json:"type"`
	ID     string `json:"id,omitempty"`
	Global string `json:"global,omitempty"`
	URL    string `json:"url,omitempty"`
}

// BrowserReply is read from the page. Either Response or Error is set on a connect_result.
type BrowserReply struct {
	Type     string           `json:"type"`
	ID       string           `json:"id"`
	Response *ConnectResponse `json:"response,omitempty"`
	Error    string           `json:"error,omitempty"`
}
