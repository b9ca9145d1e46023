package http

import "html/template"

type pageData struct {
	Chart template.HTML
}

// pageTemplate hosts the chart in #root. Legend entries report hover
// enter and exit back to the server, which answers with the redrawn chart.
// While #root holds an indicator instead of a chart the page polls
// /chart.svg, honouring Retry-After, until the dataset is ready.
var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Penguins: bill length vs. bill depth</title>
<style>
  body { margin: 0; overflow: hidden; font-family: sans-serif; }
  .tick line { stroke: #C0C0BB; }
  .tick text { fill: #8E8883; font-size: 12px; }
  .legend .tick text { fill: #635F5D; font-size: 14px; }
  .legend .tick { cursor: pointer; }
  .axis-label { fill: #635F5D; font-size: 20px; }
</style>
</head>
<body>
<div id="root">{{.Chart}}</div>
<script>
(function () {
  var root = document.getElementById("root");
  var current = null;
  var pending = Promise.resolve();

  function send(method, body) {
    pending = pending.then(function () {
      return fetch("/hover", {
        method: method,
        headers: {"Content-Type": "application/json"},
        body: body === undefined ? undefined : JSON.stringify(body)
      });
    }).then(function () {
      return fetch("/chart.svg", {cache: "no-store"});
    }).then(function (resp) {
      return resp.ok ? resp.text() : null;
    }).then(function (svg) {
      if (svg !== null) {
        show(svg);
      }
    }).catch(function () {});
  }

  function show(svg) {
    root.innerHTML = svg.slice(Math.max(0, svg.indexOf("<svg")));
  }

  function indicate(text) {
    var pre = document.createElement("pre");
    pre.textContent = text;
    root.replaceChildren(pre);
  }

  function waitForChart() {
    if (root.querySelector("svg")) { return; }
    fetch("/chart.svg", {cache: "no-store"}).then(function (resp) {
      if (resp.ok) {
        return resp.text().then(show);
      }
      var wait = parseInt(resp.headers.get("Retry-After"), 10);
      setTimeout(waitForChart, (wait > 0 ? wait : 1) * 1000);
      return resp.text().then(function (text) { indicate(text.trim()); });
    }).catch(function () {
      setTimeout(waitForChart, 1000);
    });
  }

  function entry(node) {
    return node && node.closest ? node.closest(".legend .tick[data-category]") : null;
  }

  root.addEventListener("mouseover", function (e) {
    var tick = entry(e.target);
    if (!tick) { return; }
    var category = tick.getAttribute("data-category");
    if (category === current) { return; }
    current = category;
    send("PUT", {category: category});
  });

  root.addEventListener("mouseout", function (e) {
    var tick = entry(e.target);
    if (!tick || entry(e.relatedTarget) === tick) { return; }
    if (entry(e.relatedTarget)) { return; }
    current = null;
    send("DELETE");
  });

  waitForChart();
})();
</script>
</body>
</html>
`))
