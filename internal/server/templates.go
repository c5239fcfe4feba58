package server

import (
	"html/template"
)

// Page templates are compiled once at startup. The markup is deliberately
// plain; styling and interactivity live in the frontend that consumes these
// pages.
var pageTemplates = template.Must(template.New("pages").Funcs(template.FuncMap{"dict": dict}).Parse(`
{{define "head"}}<!doctype html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} | Beutl Docs</title>
{{if .Description}}<meta name="description" content="{{.Description}}">{{end}}
</head>
<body>{{end}}

{{define "foot"}}</body>
</html>{{end}}

{{define "navtree"}}<ul>
{{$lang := .Lang}}{{range .Entries}}<li><a href="/{{$lang}}{{.Path}}">{{.Title}}</a>{{if .Children}}{{template "navtree" (dict "Lang" $lang "Entries" .Children)}}{{end}}</li>
{{end}}</ul>{{end}}

{{define "toclist"}}<ul>
{{range .}}<li><a href="#{{.ID}}">{{.Value}}</a>{{if .Children}}{{template "toclist" .Children}}{{end}}</li>
{{end}}</ul>{{end}}

{{define "doc"}}{{template "head" .}}
<nav class="breadcrumbs">
{{range .Crumbs}}<a href="{{.Path}}">{{.Title}}</a> / {{end}}<span>{{.Title}}</span>
</nav>
<aside class="sidebar">
{{with .Nav}}{{template "navtree" (dict "Lang" $.Lang "Entries" .Children)}}{{end}}
</aside>
<article class="content">
{{.Body}}
</article>
{{if .Toc}}<aside class="toc">{{template "toclist" .Toc}}</aside>{{end}}
{{if .EditURL}}<footer><a href="{{.EditURL}}" rel="noopener">View source</a></footer>{{end}}
{{template "foot" .}}{{end}}

{{define "apiIndex"}}{{template "head" .}}
<h1>API Reference</h1>
{{range .Namespaces}}
<section>
<h2><a href="/{{$.Lang}}/api-reference/{{.UID}}">{{.Name}}</a></h2>
<ul>
{{range .Types}}<li class="symbol-{{.Type}}"><a href="/{{$.Lang}}/api-reference/{{.UID}}">{{.Name}}</a></li>
{{end}}</ul>
</section>
{{end}}
{{template "foot" .}}{{end}}

{{define "memberList"}}{{if .Items}}<section>
<h2>{{.Heading}}</h2>
{{range .Items}}<div class="member">
<h3 id="{{.UID}}">{{.Name}}</h3>
{{if .Summary}}<p>{{.Summary}}</p>{{end}}
{{with .Syntax}}{{if .Content}}<pre><code>{{.Content}}</code></pre>{{end}}{{end}}
</div>
{{end}}</section>{{end}}{{end}}

{{define "apiType"}}{{template "head" .}}
<nav class="breadcrumbs">
<a href="/{{.Lang}}/api-reference">API Reference</a> / {{range .Crumbs}}<a href="/{{$.Lang}}/api-reference/{{.UID}}">{{.Name}}</a> / {{end}}
</nav>
<article class="api">
<h1>{{.Item.Name}} <span class="symbol-kind">{{.Item.Type}}</span></h1>
{{if .Item.Summary}}<p class="summary">{{.Item.Summary}}</p>{{end}}
{{with .Item.Syntax}}{{if .Content}}<pre><code>{{.Content}}</code></pre>{{end}}{{end}}
{{if .Item.Namespace}}<p>Namespace: <a href="/{{.Lang}}/api-reference/{{.Item.Namespace}}">{{.Item.Namespace}}</a></p>{{end}}
{{if .Item.Inheritance}}<p>Inheritance: {{range $i, $base := .Item.Inheritance}}{{if $i}} &rarr; {{end}}{{$base}}{{end}}</p>{{end}}
{{template "memberList" (dict "Heading" "Constructors" "Items" .Members.Constructors)}}
{{template "memberList" (dict "Heading" "Fields" "Items" .Members.Fields)}}
{{template "memberList" (dict "Heading" "Properties" "Items" .Members.Properties)}}
{{template "memberList" (dict "Heading" "Methods" "Items" .Members.Methods)}}
{{template "memberList" (dict "Heading" "Events" "Items" .Members.Events)}}
{{template "memberList" (dict "Heading" "Operators" "Items" .Members.Operators)}}
{{if .Children}}<section><h2>Types</h2><ul>
{{range .Children}}<li class="symbol-{{.Type}}"><a href="/{{$.Lang}}/api-reference/{{.UID}}">{{.Name}}</a></li>
{{end}}</ul></section>{{end}}
</article>
{{template "foot" .}}{{end}}

{{define "notfound"}}{{template "head" .}}
<h1>Page not found</h1>
<p>The page you are looking for does not exist. <a href="/{{.Lang}}">Back to the documentation.</a></p>
{{template "foot" .}}{{end}}
`))

// dict builds a map inside a template call, used to pass named arguments to
// the member list partial.
func dict(pairs ...any) map[string]any {
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			continue
		}
		m[key] = pairs[i+1]
	}
	return m
}
