package server

// viewerHTML is the single-page Leaflet viewer. It talks only to the
// JSON routes on the same server.
const viewerHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Cadastral parcels</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>
  body { margin: 0; font-family: sans-serif; display: flex; height: 100vh; }
  #sidebar { width: 320px; overflow-y: auto; border-right: 1px solid #ccc; padding: 8px; }
  #map { flex: 1; }
  .parcel { padding: 6px; cursor: pointer; border-bottom: 1px solid #eee; }
  .parcel:hover { background: #f0f0f0; }
  .parcel small { color: #666; }
</style>
</head>
<body>
<div id="sidebar"><h3>Parcels</h3><div id="list"></div></div>
<div id="map"></div>
<script>
const map = L.map('map').setView([45.9432, 24.9668], 7);
L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
  attribution: '&copy; OpenStreetMap contributors'
}).addTo(map);

let overlay = null;

async function showParcel(ref) {
  const resp = await fetch('/api/parcels/' + ref);
  if (!resp.ok) return;
  const feature = await resp.json();
  if (overlay) overlay.remove();
  overlay = L.layerGroup();
  L.geoJSON(feature, { style: { color: 'green', fillOpacity: 0.3 } }).addTo(overlay);
  const props = feature.properties;
  L.marker([props.central_lat, props.central_lon])
    .bindPopup('<a href="' + props.maps_link_central + '" target="_blank">Google Maps - Central Point</a>')
    .addTo(overlay);
  overlay.addTo(map);
  map.setView([props.central_lat, props.central_lon], 17);
}

async function load() {
  const resp = await fetch('/api/parcels');
  const parcels = await resp.json();
  const list = document.getElementById('list');
  for (const p of parcels) {
    const div = document.createElement('div');
    div.className = 'parcel';
    div.innerHTML = '<b>' + p.cadastral_number + '</b><br><small>' +
      p.county + ' / ' + p.uat + ' &middot; ' + p.vertex_count + ' vertices</small>';
    div.onclick = () => showParcel(p.ref);
    list.appendChild(div);
  }
}
load();
</script>
</body>
</html>
`
