// Package alumniserver exposes the alumni service as MCP tools.
package alumniserver

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_alumni/internal/engine/alumni"
)

// toolCount is the number of tools RegisterTools adds.
const toolCount = 30

// RegisterTools registers every alumni tool on server, backed by svc.
// Every tool that acts for a student takes an explicit user_id.
func RegisterTools(server *mcp.Server, svc *alumni.Service) int {
	registerProfileTools(server, svc)
	registerDirectoryTools(server, svc)
	registerPlanTools(server, svc)
	registerNetworkTools(server, svc)
	registerMessageTools(server, svc)
	registerCoachTools(server, svc)
	registerActionTools(server, svc)
	registerJobTools(server, svc)
	registerClassifyTools(server, svc)
	return toolCount
}
