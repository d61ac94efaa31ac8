package httpserver

import "net/http"

func (s *Server) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(dashboardHTML))
}

const dashboardHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8" />
  <title>Cryptocurrency Price Analysis</title>
  <script src="https://cdn.jsdelivr.net/npm/chart.js@4"></script>
  <style>
    body { font-family: sans-serif; margin: 2rem; color: #222; }
    .controls { display: flex; gap: 1rem; align-items: end; flex-wrap: wrap; margin-bottom: 1.5rem; }
    .controls label { display: block; font-size: 0.8rem; margin-bottom: 0.2rem; }
    select[multiple] { min-width: 14rem; min-height: 6rem; }
    .metrics { display: flex; gap: 1rem; flex-wrap: wrap; margin: 0.8rem 0; }
    .metric { border: 1px solid #ddd; border-radius: 6px; padding: 0.6rem 1rem; min-width: 9rem; }
    .metric .label { font-size: 0.75rem; color: #777; }
    .metric .value { font-size: 1.2rem; font-weight: 600; }
    .coin { margin-bottom: 2.5rem; }
    .message { padding: 0.6rem 1rem; border-radius: 6px; margin: 0.6rem 0; }
    .message.error { background: #fde8e8; color: #9b1c1c; }
    .message.info { background: #e8f1fd; color: #1c3d9b; }
    canvas { max-height: 360px; }
  </style>
</head>
<body>
  <h1>Cryptocurrency Price Analysis</h1>
  <div class="controls">
    <div><label for="coins">Coins</label><select id="coins" multiple></select></div>
    <div><label for="from">From</label><input type="date" id="from" /></div>
    <div><label for="to">To</label><input type="date" id="to" /></div>
    <div><label for="window">MA window</label><input type="number" id="window" min="1" value="5" style="width:4rem" /></div>
    <button id="analyze">Analyze</button>
  </div>
  <div id="comparison"></div>
  <div id="results"></div>

  <script>
    const charts = [];

    async function getJSON(url) {
      const res = await fetch(url);
      const body = await res.json();
      if (!res.ok) throw new Error(body.error || res.statusText);
      return body;
    }

    function el(tag, cls, text) {
      const e = document.createElement(tag);
      if (cls) e.className = cls;
      if (text !== undefined) e.textContent = text;
      return e;
    }

    function message(parent, kind, text) {
      parent.appendChild(el('div', 'message ' + kind, text));
    }

    function fmt(v) {
      return v.toLocaleString(undefined, { maximumFractionDigits: 2 });
    }

    function metric(label, value) {
      const m = el('div', 'metric');
      m.appendChild(el('div', 'label', label));
      m.appendChild(el('div', 'value', value));
      return m;
    }

    function rangeQuery() {
      const p = new URLSearchParams();
      const from = document.getElementById('from').value;
      const to = document.getElementById('to').value;
      if (from) p.set('from', from);
      if (to) p.set('to', to);
      return p;
    }

    async function loadCoins() {
      const sel = document.getElementById('coins');
      try {
        const body = await getJSON('/api/coins');
        for (const c of body.coins) {
          const opt = document.createElement('option');
          opt.value = c.coin_id;
          opt.textContent = c.coin_id + ' (' + c.points + ' points)';
          sel.appendChild(opt);
        }
        if (!body.coins.length) {
          message(document.getElementById('results'), 'info',
            'No data collected yet. Run the collector first.');
        }
      } catch (err) {
        message(document.getElementById('results'), 'error', 'Failed to load coins: ' + err.message);
      }
    }

    async function renderComparison(selected) {
      const box = document.getElementById('comparison');
      box.innerHTML = '';
      if (selected.length < 2) return;
      const q = rangeQuery();
      q.set('coins', selected.join(','));
      const cmp = await getJSON('/api/compare?' + q);
      box.appendChild(el('h2', null, 'Price Performance Comparison'));
      const metrics = el('div', 'metrics');
      for (const [coin, s] of Object.entries(cmp.summaries)) {
        metrics.appendChild(metric(coin, s.pct_change.toFixed(2) + '%'));
      }
      box.appendChild(metrics);
      message(box, 'info', 'Best performer: ' + cmp.best + ' | Worst performer: ' + cmp.worst);
    }

    async function renderCoin(parent, coin) {
      const box = el('div', 'coin');
      parent.appendChild(box);
      box.appendChild(el('h2', null, coin));
      const q = rangeQuery();
      q.set('window', document.getElementById('window').value || '5');
      try {
        const [series, summary] = await Promise.all([
          getJSON('/api/coins/' + coin + '/series?' + q),
          getJSON('/api/coins/' + coin + '/summary?' + rangeQuery()),
        ]);

        const metrics = el('div', 'metrics');
        metrics.appendChild(metric('Mean Price', '$' + fmt(summary.mean)));
        metrics.appendChild(metric('Std Deviation', '$' + fmt(summary.std_dev)));
        metrics.appendChild(metric('Min Price', '$' + fmt(summary.min)));
        metrics.appendChild(metric('Max Price', '$' + fmt(summary.max)));
        metrics.appendChild(metric('Price Change', summary.pct_change.toFixed(2) + '%'));
        box.appendChild(metrics);

        const canvas = document.createElement('canvas');
        box.appendChild(canvas);
        const avgByTs = Object.fromEntries(series.moving_average.map(a => [a.ts, a.avg]));
        charts.push(new Chart(canvas, {
          type: 'line',
          data: {
            labels: series.points.map(p => p.ts.slice(0, 10)),
            datasets: [
              { label: coin + ' price', data: series.points.map(p => p.price), borderColor: 'blue', pointRadius: 0 },
              { label: series.window + '-sample moving average',
                data: series.points.map(p => avgByTs[p.ts] ?? null),
                borderColor: 'red', borderDash: [6, 4], pointRadius: 0 },
            ],
          },
          options: { interaction: { mode: 'index', intersect: false } },
        }));

        const trend = summary.pct_change >= 0 ? 'positive' : 'negative';
        message(box, 'info', coin + ' showed a ' + trend + ' trend (' + summary.pct_change.toFixed(2) + '%).');
      } catch (err) {
        message(box, 'error', err.message);
      }
    }

    document.getElementById('analyze').addEventListener('click', async () => {
      const selected = [...document.getElementById('coins').selectedOptions].map(o => o.value);
      const results = document.getElementById('results');
      charts.forEach(c => c.destroy());
      charts.length = 0;
      results.innerHTML = '';
      if (!selected.length) {
        message(results, 'info', 'Select at least one coin to analyze.');
        return;
      }
      try {
        await renderComparison(selected);
      } catch (err) {
        message(document.getElementById('comparison'), 'error', err.message);
      }
      for (const coin of selected) {
        await renderCoin(results, coin);
      }
    });

    loadCoins();
  </script>
</body>
</html>`
