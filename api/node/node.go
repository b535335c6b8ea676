// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/yokaihunt/custody/api/utils"
	"github.com/yokaihunt/custody/runtime"
)

// Info describes the running node.
type Info struct {
	Version      string `json:"version"`
	LogDBVersion string `json:"logDBVersion,omitempty"`
}

type Status struct {
	Info
	Now uint64 `json:"now"`
}

type Node struct {
	exec *runtime.Executor
	info Info
}

func New(exec *runtime.Executor, info Info) *Node {
	return &Node{
		exec,
		info,
	}
}

func (n *Node) handleNodeInfo(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, &Status{n.info, n.exec.Now()})
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/info").
		Methods(http.MethodGet).
		Name("GET /node/info").
		HandlerFunc(utils.WrapHandlerFunc(n.handleNodeInfo))
}
