package dashboard

import (
	"net/http"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte(indexHTML))
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
    <title>LogFlow API Analytics</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            margin: 0;
            padding: 20px;
            background: #1a1a1a;
            color: #fff;
        }
        .container {
            max-width: 1400px;
            margin: 0 auto;
        }
        h1 {
            color: #4CAF50;
        }
        .metrics-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(250px, 1fr));
            gap: 20px;
            margin: 20px 0;
        }
        .metric-card {
            background: #2a2a2a;
            padding: 20px;
            border-radius: 8px;
            border-left: 4px solid #4CAF50;
        }
        .metric-value {
            font-size: 2em;
            font-weight: bold;
            color: #4CAF50;
        }
        .metric-label {
            color: #999;
            font-size: 0.9em;
        }
        .panel {
            background: #2a2a2a;
            padding: 20px;
            border-radius: 8px;
            margin: 20px 0;
        }
        table {
            width: 100%;
            border-collapse: collapse;
            font-family: monospace;
            font-size: 0.9em;
        }
        th, td {
            text-align: left;
            padding: 6px;
            border-bottom: 1px solid #333;
        }
        th {
            cursor: pointer;
            color: #999;
        }
        tr.row:hover {
            background: #333;
            cursor: pointer;
        }
        pre {
            white-space: pre-wrap;
            font-size: 0.85em;
        }
        .status {
            color: #4CAF50;
            font-size: 0.9em;
        }
    </style>
</head>
<body>
    <div class="container">
        <h1>LogFlow API Analytics</h1>
        <div class="status" id="status">Connecting to server...</div>

        <div class="metrics-grid">
            <div class="metric-card">
                <div class="metric-label">Total Requests</div>
                <div class="metric-value" id="total-records">0</div>
            </div>
            <div class="metric-card">
                <div class="metric-label">Mean Response Time</div>
                <div class="metric-value" id="mean-latency">0</div>
            </div>
            <div class="metric-card">
                <div class="metric-label">Success Rate</div>
                <div class="metric-value" id="success-rate">0%</div>
            </div>
            <div class="metric-card">
                <div class="metric-label">Unique Endpoints</div>
                <div class="metric-value" id="unique-keys">0</div>
            </div>
        </div>

        <h2>Top Endpoints</h2>
        <div class="panel"><table id="top-keys"></table></div>

        <h2>Slow Requests</h2>
        <div class="panel"><table id="outliers"></table></div>

        <h2>Recent Activity</h2>
        <div class="panel"><table id="timeline"></table></div>

        <h2>Requests</h2>
        <div class="panel">
            <input id="endpoint-filter" placeholder="Filter endpoint">
            <input id="method-filter" placeholder="Filter method">
            <select id="page-size">
                <option>10</option><option>20</option><option>50</option><option>100</option>
            </select>
            <button id="prev">Prev</button>
            <span id="page-info"></span>
            <button id="next">Next</button>
            <table id="records"></table>
        </div>

        <h2>Selected Request</h2>
        <div class="panel"><pre id="detail">Select a request to inspect it</pre></div>
    </div>

    <script>
        const ws = new WebSocket('ws://' + window.location.host + '/ws');
        const statusEl = document.getElementById('status');
        const view = { page: 1, size: 10, sort: '', desc: false };

        function cell(row, text) {
            const td = document.createElement('td');
            td.textContent = text;
            row.appendChild(td);
        }

        function renderSummary(s) {
            document.getElementById('total-records').textContent = s.total_records;
            document.getElementById('mean-latency').textContent = s.mean_latency.toFixed(2);
            document.getElementById('success-rate').textContent = (s.success_rate * 100).toFixed(1) + '%';
            document.getElementById('unique-keys').textContent = s.unique_keys;

            const top = document.getElementById('top-keys');
            top.innerHTML = '<tr><th>Endpoint</th><th>Requests</th><th>Mean Latency</th></tr>';
            (s.top_keys || []).forEach(k => {
                const row = document.createElement('tr');
                cell(row, k.key);
                cell(row, k.count);
                cell(row, (s.mean_latency_by_key[k.key] || 0).toFixed(2));
                top.appendChild(row);
            });

            const outliers = document.getElementById('outliers');
            outliers.innerHTML = '<tr><th>Endpoint</th><th>Severity</th><th>Latency</th><th>Expected</th></tr>';
            (s.outliers || []).forEach(o => {
                const row = document.createElement('tr');
                row.className = 'row';
                cell(row, o.key);
                cell(row, o.severity);
                cell(row, o.latency.toFixed(2));
                cell(row, o.expected_latency.toFixed(2));
                row.onclick = () => fetch('/api/records/' + encodeURIComponent(o.record_id));
                outliers.appendChild(row);
            });

            const timeline = document.getElementById('timeline');
            timeline.innerHTML = '<tr><th>When</th><th>Endpoint</th><th>Latency</th></tr>';
            (s.timeline || []).slice().reverse().forEach(p => {
                const row = document.createElement('tr');
                cell(row, p.label);
                cell(row, p.key);
                cell(row, p.latency.toFixed(2));
                timeline.appendChild(row);
            });
        }

        function loadRecords() {
            const params = new URLSearchParams({
                endpoint: document.getElementById('endpoint-filter').value,
                method: document.getElementById('method-filter').value,
                sort: view.sort,
                desc: view.desc,
                page: view.page,
                size: view.size
            });
            fetch('/api/records?' + params).then(r => r.json()).then(p => {
                const table = document.getElementById('records');
                table.innerHTML = '';
                const head = document.createElement('tr');
                [['timestamp', 'Time'], ['key', 'Endpoint'], ['', 'Method'], ['status', 'Status'], ['latency', 'Latency']].forEach(c => {
                    const th = document.createElement('th');
                    th.textContent = c[1];
                    if (c[0]) {
                        th.onclick = () => {
                            view.desc = view.sort === c[0] ? !view.desc : false;
                            view.sort = c[0];
                            loadRecords();
                        };
                    }
                    head.appendChild(th);
                });
                table.appendChild(head);

                (p.rows || []).forEach(r => {
                    const row = document.createElement('tr');
                    row.className = 'row';
                    cell(row, r.timestamp);
                    cell(row, r.key);
                    cell(row, r.method || '-');
                    cell(row, r.status || '-');
                    cell(row, r.latency_label);
                    row.onclick = () => fetch('/api/records/' + encodeURIComponent(r.id));
                    table.appendChild(row);
                });

                const info = document.getElementById('page-info');
                info.textContent = p.total === 0 ? 'No requests' :
                    p.start + '-' + p.end + ' of ' + p.total;
                document.getElementById('prev').disabled = p.page <= 1;
                document.getElementById('next').disabled = p.page >= p.page_count;
            });
        }

        document.getElementById('endpoint-filter').oninput = () => { view.page = 1; loadRecords(); };
        document.getElementById('method-filter').oninput = () => { view.page = 1; loadRecords(); };
        document.getElementById('page-size').onchange = (e) => {
            view.size = parseInt(e.target.value, 10);
            view.page = 1;
            loadRecords();
        };
        document.getElementById('prev').onclick = () => { view.page--; loadRecords(); };
        document.getElementById('next').onclick = () => { view.page++; loadRecords(); };

        ws.onopen = () => {
            statusEl.textContent = 'Connected';
        };

        ws.onclose = () => {
            statusEl.textContent = 'Disconnected';
        };

        ws.onmessage = (event) => {
            const msg = JSON.parse(event.data);
            if (msg.type === 'summary') {
                renderSummary(msg.data);
                loadRecords();
            } else if (msg.type === 'selection') {
                document.getElementById('detail').textContent = JSON.stringify(msg.data, null, 2);
            }
        };
    </script>
</body>
</html>`
