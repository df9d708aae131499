package server

// indexPage is the control page. It polls the JSON frame, draws it into an
// SVG element and posts pointer input back as gestures.
const indexPage = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>GraphWork</title>
  <style>
    body { font-family: 'Helvetica Neue', Arial, sans-serif; margin: 0; display: flex; color: #333; }
    main { flex: 1; padding: 12px; }
    aside { width: 320px; padding: 12px; border-left: 1px solid #eee; overflow-y: auto; height: 100vh; box-sizing: border-box; }
    svg { border: 1px solid #eee; background: #fff; touch-action: none; }
    .controls button { margin-right: 4px; }
    .neighbor { cursor: pointer; margin: 2px 0; }
    .neighbor:hover { color: #a00; }
    dt { font-weight: bold; }
  </style>
</head>
<body>
  <main>
    <form id="upload">
      <input type="file" name="graph" accept=".gexf,.json,.yaml,.yml" required>
      <button type="submit">Load</button>
    </form>
    <div class="controls">
      <button data-action="zoom-in">+</button>
      <button data-action="zoom-out">-</button>
      <button data-action="pan-left">&larr;</button>
      <button data-action="pan-right">&rarr;</button>
      <button data-action="reset">reset</button>
    </div>
    <svg id="canvas" width="928" height="600"></svg>
  </main>
  <aside>
    <h3 id="selected">No selection</h3>
    <dl id="attributes"></dl>
    <h4>Connected</h4>
    <div id="connected"></div>
    <h4>Needed by</h4>
    <div id="neededBy"></div>
  </aside>
<script>
const svg = document.getElementById('canvas');
const NS = 'http://www.w3.org/2000/svg';
let dragging = false, moved = false, lastSequence = -1;

function point(e) {
  const r = svg.getBoundingClientRect();
  return { x: e.clientX - r.left, y: e.clientY - r.top };
}

async function gesture(g) {
  await fetch('/api/gesture', { method: 'POST', headers: { 'Content-Type': 'application/json' }, body: JSON.stringify(g) });
  sidebar();
}

function draw(f) {
  svg.setAttribute('width', f.width);
  svg.setAttribute('height', f.height);
  svg.replaceChildren();
  const links = document.createElementNS(NS, 'g');
  links.setAttribute('stroke', f.edge_color);
  for (const e of f.edges) {
    const l = document.createElementNS(NS, 'line');
    l.setAttribute('x1', e.from.x); l.setAttribute('y1', e.from.y);
    l.setAttribute('x2', e.to.x); l.setAttribute('y2', e.to.y);
    links.appendChild(l);
  }
  svg.appendChild(links);
  for (const n of f.nodes) {
    const c = document.createElementNS(NS, 'circle');
    c.setAttribute('cx', n.screen.x); c.setAttribute('cy', n.screen.y);
    c.setAttribute('r', n.style.radius * f.transform.k);
    c.setAttribute('fill', n.style.fill);
    c.setAttribute('stroke', n.style.stroke);
    c.setAttribute('stroke-width', 1.5 * f.transform.k);
    c.setAttribute('opacity', n.style.opacity);
    const t = document.createElementNS(NS, 'title');
    t.textContent = n.label;
    c.appendChild(t);
    svg.appendChild(c);
  }
}

async function poll() {
  try {
    const f = await (await fetch('/api/frame')).json();
    if (f.sequence !== lastSequence) { lastSequence = f.sequence; draw(f); }
  } finally {
    requestAnimationFrame(poll);
  }
}

function neighbor(list, el) {
  el.replaceChildren();
  for (const n of list) {
    const p = document.createElement('p');
    p.className = 'neighbor';
    p.textContent = n.label;
    p.onclick = () => gesture({ kind: 'select', node: n.id });
    p.onmouseenter = () => gesture({ kind: 'pointer_enter', node: n.id });
    p.onmouseleave = () => gesture({ kind: 'pointer_leave', node: n.id });
    el.appendChild(p);
  }
}

async function sidebar() {
  const s = await (await fetch('/api/selection')).json();
  document.getElementById('selected').textContent = s.selected ? s.label : 'No selection';
  const dl = document.getElementById('attributes');
  dl.replaceChildren();
  for (const a of s.attributes || []) {
    const dt = document.createElement('dt'); dt.textContent = a.key;
    const dd = document.createElement('dd'); dd.textContent = a.value;
    dl.append(dt, dd);
  }
  neighbor(s.connected, document.getElementById('connected'));
  neighbor(s.needed_by, document.getElementById('neededBy'));
}

svg.addEventListener('pointerdown', e => {
  dragging = true; moved = false;
  svg.setPointerCapture(e.pointerId);
  gesture({ kind: 'drag_start', screen: point(e) });
});
svg.addEventListener('pointermove', e => {
  if (dragging) { moved = true; gesture({ kind: 'drag_move', screen: point(e) }); }
  else gesture({ kind: 'pointer_move', screen: point(e) });
});
svg.addEventListener('pointerup', e => {
  dragging = false;
  gesture({ kind: 'drag_end' });
  if (!moved) gesture({ kind: 'click', screen: point(e) });
});
svg.addEventListener('wheel', e => {
  e.preventDefault();
  gesture({ kind: 'zoom', factor: Math.pow(2, -e.deltaY / 500), screen: point(e) });
}, { passive: false });

for (const b of document.querySelectorAll('.controls button')) {
  b.onclick = async () => { await fetch('/api/controls/' + b.dataset.action, { method: 'POST' }); };
}

document.getElementById('upload').addEventListener('submit', async e => {
  e.preventDefault();
  const res = await fetch('/upload', { method: 'POST', body: new FormData(e.target) });
  if (!res.ok) alert(await res.text());
  sidebar();
});

poll();
sidebar();
</script>
</body>
</html>
`
