package server

import "html/template"

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>wdx explorer</title>
<style>
  body { font-family: -apple-system, sans-serif; margin: 2rem; color: #1f2937; }
  h1 { font-size: 1.3rem; }
  .stats { color: #6b7280; margin-bottom: 1.5rem; }
  form { margin-bottom: 1.5rem; }
  input, select { padding: 4px 6px; margin-right: 8px; }
  table { border-collapse: collapse; }
  th, td { border: 1px solid #d1d5db; padding: 4px 10px; text-align: right; }
  th { background: #f3f4f6; }
  td:first-child, th:first-child { text-align: left; }
  .error { color: #ef4444; }
  .empty { color: #9ca3af; }
</style>
</head>
<body>
<h1>Indicator explorer</h1>
<div class="stats">
  {{.Stats.Countries}} countries · {{.Stats.Series}} series ·
  {{.Stats.Entries}} index entries ·
  {{printf "%.1f" .Stats.AvgSeriesPerCountry}} series/country
</div>

<form method="get" action="/">
  <input name="countries" placeholder="ARG,USA,CHN" value="{{range $i, $c := .Countries}}{{if $i}},{{end}}{{$c}}{{end}}">
  <select name="series">
    <option value="">— series —</option>
    {{$sel := .SeriesCode}}
    {{range .AllSeries}}
    <option value="{{.Code}}" {{if eq .Code $sel}}selected{{end}}>{{.Name}}</option>
    {{end}}
  </select>
  <select name="view">
    <option value="year" {{if eq .View "year"}}selected{{end}}>years as rows</option>
    <option value="country" {{if eq .View "country"}}selected{{end}}>countries as rows</option>
  </select>
  {{if .Years}}
  <select name="year">
    <option value="">all years</option>
    {{$cur := .Year}}
    {{range .Years}}
    <option value="{{.}}" {{if eq . $cur}}selected{{end}}>{{.}}</option>
    {{end}}
  </select>
  {{end}}
  <button type="submit">Compare</button>
</form>

{{if .Error}}<p class="error">{{.Error}}</p>{{end}}

{{if .Table.Columns}}
<h2>{{.SeriesName}}</h2>
{{if .Table.Rows}}
<table>
  <tr>{{range .Table.Columns}}<th>{{.}}</th>{{end}}</tr>
  {{range .Table.Rows}}
  <tr>{{range .}}<td>{{if .}}{{.}}{{else}}<span class="empty">—</span>{{end}}</td>{{end}}</tr>
  {{end}}
</table>
{{else}}
<p class="empty">No data for this selection.</p>
{{end}}
{{end}}
</body>
</html>
`))
