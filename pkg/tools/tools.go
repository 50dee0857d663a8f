// Package tools defines the operations exposed to the calling agent and
// the dispatcher that validates requests and routes them onto the process
// runner.
package tools

// Tool describes one callable operation with its JSON input schema.
type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema InputSchema `json:"inputSchema"`
}

type InputSchema struct {
	Type       string                    `json:"type"`
	Properties map[string]PropertySchema `json:"properties"`
	Required   []string                  `json:"required,omitempty"`
}

type PropertySchema struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Default     any    `json:"default,omitempty"`
}

const (
	ToolExecuteCommand = "execute-command"
	ToolExecuteScript  = "execute-script"
	ToolListHosts      = "list-hosts"
	ToolGetHostInfo    = "get-host-info"
	ToolUploadFile     = "upload-file"
	ToolDownloadFile   = "download-file"
)

// Definitions returns the tool table in a stable order.
func Definitions() []Tool {
	return []Tool{
		{
			Name:        ToolExecuteCommand,
			Description: "Execute a command on a remote host over ssh. The host must exist in the ssh config.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]PropertySchema{
					"host":    {Type: "string", Description: "Host alias from the ssh config"},
					"command": {Type: "string", Description: "Command to execute on the remote host"},
					"timeout": {Type: "integer", Description: "Timeout in seconds", Default: 30},
					"encoded": {Type: "boolean", Description: "Base64-encode the command before sending", Default: false},
				},
				Required: []string{"host", "command"},
			},
		},
		{
			Name:        ToolExecuteScript,
			Description: "Execute a multi-line script on a remote host. The script body is always base64-encoded across the ssh boundary.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]PropertySchema{
					"host":        {Type: "string", Description: "Host alias from the ssh config"},
					"script":      {Type: "string", Description: "Script body to execute"},
					"timeout":     {Type: "integer", Description: "Timeout in seconds", Default: 60},
					"interpreter": {Type: "string", Description: "Remote interpreter fed the decoded script", Default: "bash"},
				},
				Required: []string{"host", "script"},
			},
		},
		{
			Name:        ToolListHosts,
			Description: "List all hosts known to the ssh config.",
			InputSchema: InputSchema{
				Type:       "object",
				Properties: map[string]PropertySchema{},
			},
		},
		{
			Name:        ToolGetHostInfo,
			Description: "Return the full configuration of one host, including unrecognized properties.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]PropertySchema{
					"host": {Type: "string", Description: "Host alias from the ssh config"},
				},
				Required: []string{"host"},
			},
		},
		{
			Name:        ToolUploadFile,
			Description: "Upload a local file to a remote host via scp.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]PropertySchema{
					"host":       {Type: "string", Description: "Host alias from the ssh config"},
					"localPath":  {Type: "string", Description: "Path of the local source file"},
					"remotePath": {Type: "string", Description: "Destination path on the remote host"},
				},
				Required: []string{"host", "localPath", "remotePath"},
			},
		},
		{
			Name:        ToolDownloadFile,
			Description: "Download a file from a remote host via scp.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]PropertySchema{
					"host":       {Type: "string", Description: "Host alias from the ssh config"},
					"remotePath": {Type: "string", Description: "Path of the remote source file"},
					"localPath":  {Type: "string", Description: "Destination path on the local machine"},
				},
				Required: []string{"host", "remotePath", "localPath"},
			},
		},
	}
}
