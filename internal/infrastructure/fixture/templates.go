package fixture

// Fixed notice strings form the contract the page objects assert against.
const (
	NoticeRegistered  = "You have successfully registered!"
	NoticeLoggedIn    = "You logged into a secure area!"
	NoticeLoggedOut   = "You logged out of the secure area!"
	NoticeBadUsername = "Your username is invalid!"
	NoticeBadPassword = "Your password is invalid!"
	NoticeMustLogin   = "You must login to view the secure area!"
	NoticeUploaded    = "File Uploaded!"
)

// Seeded credentials for flows that do not go through registration.
const (
	SeededUsername = "practice"
	SeededPassword = "SuperSecretPassword!"
)

const layoutHTML = `<!DOCTYPE html>
<html>
<head><title>{{.Title}}</title></head>
<body>
{{if .Flash}}<div id="flash" class="flash {{.FlashClass}}">{{.Flash}}</div>{{end}}
<div id="content">
{{template "body" .}}
</div>
</body>
</html>`

const indexBody = `{{define "body"}}
<h1>UI Probe Practice Site</h1>
<ul>
  <li><a href="/login">Form Authentication</a></li>
  <li><a href="/register">Register</a></li>
  <li><a href="/upload">File Upload</a></li>
  <li><a href="/download">File Download</a></li>
  <li><a href="/tables">Data Tables</a></li>
  <li><a href="/windows">Multiple Windows</a></li>
  <li><a href="/iframe">Iframe</a></li>
  <li><a href="/dragdrop">Drag and Drop</a></li>
</ul>
{{end}}`

const loginBody = `{{define "body"}}
<h2>Login Page</h2>
<form id="login" method="post" action="/login">
  <label for="username">Username</label>
  <input type="text" name="username" id="username">
  <label for="password">Password</label>
  <input type="password" name="password" id="password">
  <button id="login-button" type="submit">Login</button>
</form>
{{end}}`

const registerBody = `{{define "body"}}
<h2>Register</h2>
<form id="register" method="post" action="/register">
  <label for="username">Username</label>
  <input type="text" name="username" id="username">
  <label for="password">Password</label>
  <input type="password" name="password" id="password">
  <label for="confirm">Confirm Password</label>
  <input type="password" name="confirm" id="confirm">
  <button id="register-button" type="submit">Register</button>
</form>
{{end}}`

const secureBody = `{{define "body"}}
<h2 id="secure-title">Secure Area</h2>
<p>Welcome to the Secure Area, {{.User}}.</p>
<a id="logout" href="/logout">Logout</a>
{{end}}`

const uploadBody = `{{define "body"}}
<h2>File Uploader</h2>
<form id="upload" method="post" action="/upload" enctype="multipart/form-data">
  <input type="file" name="file" id="file-upload">
  <button id="file-submit" type="submit">Upload</button>
</form>
{{end}}`

const uploadedBody = `{{define "body"}}
<h3 id="upload-result">File Uploaded!</h3>
<div id="uploaded-files">{{.Uploaded}}</div>
{{end}}`

const downloadBody = `{{define "body"}}
<h2>File Downloader</h2>
<div id="downloads">
{{range .Files}}  <a class="download-link" href="/download/{{.}}">{{.}}</a><br>
{{end}}</div>
{{end}}`

// table1 headers re-sort the body rows in place, so row indexes read before
// a click point at different content afterwards.
const tablesBody = `{{define "body"}}
<h2>Data Tables</h2>
<table id="table1">
  <thead>
    <tr><th>Last Name</th><th>First Name</th><th>Email</th><th>Due</th></tr>
  </thead>
  <tbody>
    <tr><td>Smith</td><td>John</td><td>jsmith@example.com</td><td>$50.00</td></tr>
    <tr><td>Bach</td><td>Frank</td><td>fbach@example.com</td><td>$51.00</td></tr>
    <tr><td>Doe</td><td>Jason</td><td>jdoe@example.com</td><td>$100.00</td></tr>
    <tr><td>Conway</td><td>Tim</td><td>tconway@example.com</td><td>$50.00</td></tr>
  </tbody>
</table>
<table id="table2">
  <thead>
    <tr><th>Name</th><th>Points</th></tr>
  </thead>
  <tbody>
    <tr><td>alpha</td><td>10</td></tr>
    <tr><td>beta</td><td></td></tr>
    <tr></tr>
  </tbody>
</table>
<table id="empty-table">
  <thead>
    <tr><th>Nothing</th></tr>
  </thead>
  <tbody></tbody>
</table>
<script>
(function () {
  var table = document.getElementById('table1');
  var headers = table.querySelectorAll('thead th');
  headers.forEach(function (th, col) {
    th.addEventListener('click', function () {
      var body = table.tBodies[0];
      var rows = Array.prototype.slice.call(body.rows);
      rows.sort(function (x, y) {
        return x.cells[col].textContent.localeCompare(y.cells[col].textContent);
      });
      rows.forEach(function (row) { body.appendChild(row); });
    });
  });
})();
</script>
{{end}}`

const windowsBody = `{{define "body"}}
<h2>Opening a new window</h2>
<a id="new-window-link" href="/windows/new" target="_blank">Click Here</a>
{{end}}`

const newWindowBody = `{{define "body"}}
<h3 id="new-window-title">New Window</h3>
{{end}}`

const iframeBody = `{{define "body"}}
<h2>Iframe</h2>
<iframe id="content-frame" src="/iframe/content"></iframe>
{{end}}`

const iframeContentBody = `{{define "body"}}
<p id="frame-text">Your content goes here.</p>
{{end}}`

// The drag surface keeps a direction-keyed swap state: dropping A onto B
// shows the swapped pair, dropping B onto A shows the original pair, and a
// repeated identical drop changes nothing. Swaps move content, not element
// identity.
const dragdropBody = `{{define "body"}}
<h2>Drag and Drop</h2>
<div id="columns">
  <div class="column" id="column-a"><header>A</header></div>
  <div class="column" id="column-b"><header>B</header></div>
</div>
<script>
(function () {
  var a = document.getElementById('column-a');
  var b = document.getElementById('column-b');
  var dragging = null;

  function apply(swapped) {
    a.querySelector('header').textContent = swapped ? 'B' : 'A';
    b.querySelector('header').textContent = swapped ? 'A' : 'B';
  }

  [a, b].forEach(function (col) {
    col.addEventListener('mousedown', function () { dragging = col; });
    col.addEventListener('mouseup', function () {
      if (dragging && dragging !== col) {
        apply(dragging === a);
      }
      dragging = null;
    });
  });
  document.addEventListener('mouseup', function () { dragging = null; });
})();
</script>
{{end}}`
