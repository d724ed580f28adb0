package html

// SummaryTemplate is a single-page index of the generated test suite.
const SummaryTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>REST API Test Suite</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background: #f5f7fa;
            color: #2c3e50;
            line-height: 1.6;
        }
        .container { max-width: 1200px; margin: 0 auto; padding: 20px; }
        header {
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            color: white;
            padding: 32px 20px;
            margin-bottom: 24px;
            border-radius: 8px;
        }
        header h1 { font-size: 2em; margin-bottom: 6px; }
        section {
            background: white;
            padding: 20px;
            border-radius: 8px;
            margin-bottom: 24px;
            box-shadow: 0 2px 4px rgba(0, 0, 0, 0.05);
        }
        section h2 { color: #667eea; margin-bottom: 12px; }
        .stats { display: grid; grid-template-columns: repeat(auto-fit, minmax(160px, 1fr)); gap: 12px; }
        .stat { background: #f8f9fa; border-left: 4px solid #667eea; padding: 12px; border-radius: 4px; }
        .stat .value { font-size: 1.8em; font-weight: bold; color: #667eea; }
        table { width: 100%; border-collapse: collapse; margin-top: 8px; }
        th, td { text-align: left; padding: 6px 8px; border-bottom: 1px solid #e0e0e0; vertical-align: top; }
        th { background: #f0f2f5; }
        code { font-family: 'Courier New', monospace; font-size: 0.9em; }
        .badge { display: inline-block; padding: 1px 8px; border-radius: 3px; color: white; font-size: 0.8em; font-weight: bold; margin-right: 2px; }
        .method-get { background: #61affe; }
        .method-post { background: #49cc90; }
        .method-put { background: #fca130; }
        .method-delete { background: #f93e3e; }
        .method-head { background: #9012fe; }
        .method-default { background: #999; }
        .muted { color: #757575; font-style: italic; }
    </style>
</head>
<body>
<div class="container">
    <header>
        <h1>REST API Test Suite</h1>
        <p>Generated from <code>{{.SourceRoot}}</code>, test battery version {{.BatteryVersion}}</p>
    </header>

    <section>
        <h2>Statistics</h2>
        <div class="stats">
            <div class="stat"><div class="value">{{.FilesScanned}}</div>Files scanned</div>
            <div class="stat"><div class="value">{{len .Groups}}</div>Controllers</div>
            <div class="stat"><div class="value">{{len .Endpoints}}</div>Endpoints</div>
            <div class="stat"><div class="value">{{.TotalTests}}</div>Test functions</div>
            <div class="stat"><div class="value">{{len .Skipped}}</div>Skipped files</div>
        </div>
        <table>
            <tr><th>Resource type</th><th>Endpoints</th></tr>
            {{- range .Resources}}
            <tr><td>{{.Type}}</td><td>{{.Count}}</td></tr>
            {{- end}}
        </table>
    </section>

    <section>
        <h2>Endpoints</h2>
        <table>
            <tr><th>Methods</th><th>Path</th><th>Type</th><th>Tests</th><th>Module</th><th>Doc</th></tr>
            {{- range .Endpoints}}
            <tr>
                <td>{{range .Endpoint.Methods}}<span class="badge {{methodColor .}}">{{methodBadge .}}</span>{{end}}</td>
                <td><code>{{.Endpoint.Path}}</code></td>
                <td>{{.Endpoint.ResourceType}}</td>
                <td>{{len .TestNames}}</td>
                <td><a href="{{.TestFile}}">{{.Stem}}</a></td>
                <td><a href="{{.DocFile}}">{{.Stem}}.md</a></td>
            </tr>
            {{- end}}
        </table>
    </section>

    <section>
        <h2>Controllers</h2>
        <table>
            <tr><th>Class</th><th>Type</th><th>Namespace</th><th>Routes</th><th>Endpoints</th><th>Public methods</th></tr>
            {{- range .Groups}}
            <tr>
                <td><strong>{{.Controller.ClassName}}</strong><br><span class="muted">{{.Controller.Description}}</span></td>
                <td>{{.Controller.Type}}</td>
                <td><code>{{.Controller.Namespace}}</code></td>
                <td>{{len .Controller.Routes}}</td>
                <td>{{len .Entries}}</td>
                <td>{{join .Controller.PublicMethods ", "}}</td>
            </tr>
            {{- end}}
        </table>
    </section>
    {{- if .Skipped}}

    <section>
        <h2>Skipped files</h2>
        <table>
            <tr><th>File</th><th>Reason</th></tr>
            {{- range .Skipped}}
            <tr><td><code>{{.Path}}</code></td><td>{{.Reason}}</td></tr>
            {{- end}}
        </table>
    </section>
    {{- end}}
    {{- if .Warnings}}

    <section>
        <h2>Warnings</h2>
        <ul>
            {{- range .Warnings}}
            <li>{{.}}</li>
            {{- end}}
        </ul>
    </section>
    {{- end}}
</div>
</body>
</html>
`
