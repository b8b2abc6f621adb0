package webapp

// Page shells. Fragment markup comes pre-rendered (and pre-escaped)
// from the render package; the shells only lay it out.

const pageSource = `
{{define "head"}}<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{.Title}} - Agriport</title>
  <link rel="stylesheet" href="/static/agriport.css">
</head>
<body>
<header class="header">
  <a class="brand" href="/dashboard">Agriport</a>
  <nav class="nav">
    <a href="/products">Marketplace</a>
    <a href="/messages">Messages</a>
    <a href="/notifications">Notifications{{if .UnreadCount}} <span class="notification-badge">{{.UnreadCount}}</span>{{end}}</a>
    <a href="/logout">Logout</a>
  </nav>
</header>
<main>{{end}}

{{define "foot"}}</main>
</body>
</html>{{end}}

{{define "login"}}{{template "head" .}}
<section class="login-card">
  <h1>Sign in</h1>
  {{if .Banner}}<div class="form-banner error">{{.Banner}}</div>{{end}}
  <form method="post" action="/login">
    <label>Role
      <select name="role">
        <option value="Buyer" {{if eq .Role "Buyer"}}selected{{end}}>Buyer</option>
        <option value="Farmer" {{if eq .Role "Farmer"}}selected{{end}}>Farmer</option>
        <option value="Admin" {{if eq .Role "Admin"}}selected{{end}}>Admin</option>
      </select>
    </label>
    <label>Email <input type="email" name="email" value="{{.Email}}"></label>
    {{with .FieldErrors.email}}<div class="field-error">{{.}}</div>{{end}}
    <label>Password <input type="password" name="password"></label>
    {{with .FieldErrors.password}}<div class="field-error">{{.}}</div>{{end}}
    <button type="submit">Login</button>
  </form>
</section>
{{template "foot" .}}{{end}}

{{define "dashboard"}}{{template "head" .}}
<h1>{{.Title}}</h1>
<section class="dashboard-stats">
  {{range $name, $value := .Stats}}<div class="stat-card"><span class="stat-name">{{$name}}</span><span class="stat-value">{{$value}}</span></div>{{end}}
</section>
<section class="dashboard-actions">
  {{range .Actions}}<a class="action-link" href="{{.Path}}">{{.Label}}</a>{{end}}
</section>
<section class="dashboard-recent">
  <h2>Recent reservations</h2>
  <table class="reservation-table"><tbody>{{range .Reservations}}{{.}}{{end}}</tbody></table>
  <h2>Recent notifications</h2>
  <div class="notification-list">{{range .Notifications}}{{.}}{{end}}</div>
</section>
{{template "foot" .}}{{end}}

{{define "notifications"}}{{template "head" .}}
<h1>Notifications</h1>
<form method="post" action="/notifications/read-all"><button type="submit">Mark all read</button></form>
<div class="notification-list">{{range .Items}}{{.}}{{end}}</div>
{{template "foot" .}}{{end}}

{{define "products"}}{{template "head" .}}
<h1>Marketplace</h1>
<form method="get" action="/products" class="product-search">
  <input type="text" name="search" value="{{.Search}}" placeholder="Search products...">
  <button type="submit">Search</button>
</form>
<div class="product-grid">{{range .Cards}}{{.}}{{end}}</div>
{{template "foot" .}}{{end}}

{{define "conversations"}}{{template "head" .}}
<h1>Messages</h1>
<div class="conversations-list">{{range .Items}}{{.}}{{end}}</div>
{{template "foot" .}}{{end}}

{{define "conversation"}}{{template "head" .}}
<h1>Conversation with {{.OtherName}}</h1>
<div class="chat-messages">{{range .Bubbles}}{{.}}{{end}}</div>
<form method="post" action="/messages/{{.ConversationID}}/send" class="chat-input">
  <input type="text" name="content" placeholder="Type your message...">
  <button type="submit">Send</button>
</form>
{{template "foot" .}}{{end}}

{{define "error"}}{{template "head" .}}
<section class="error-page">
  <h1>Something went wrong</h1>
  <p>{{.Message}}</p>
</section>
{{template "foot" .}}{{end}}
`
