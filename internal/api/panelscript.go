package api

// panelJS is the page glue: description suggestions, the status poller and the
// two form guards.
const panelJS = `(function() {
'use strict';

// ============ Tasks ============
var TASKS = [];
var tasksScript = document.getElementById('tasks-data');
if (tasksScript) {
 try {
  var raw = tasksScript.textContent.trim() || '[]';
  TASKS = JSON.parse(raw) || [];
 } catch (e) {
  console.error('tasks-data:', e);
  TASKS = [];
 }
}
TASKS = TASKS.filter(function(t) { return t && t.name; }).map(function(t) {
 return {name: t.name, time: t.time >= 1 ? t.time : 1, priority: t.priority >= 1 ? t.priority : 1};
});

var TASKS_MAP = {};
TASKS.forEach(function(t) { TASKS_MAP[t.name.toLowerCase()] = {time: t.time, priority: t.priority}; });

var descInput = document.getElementById('description');
var timeInput = document.getElementById('prep_time');
var prioSelect = document.getElementById('priority');
var sugList = document.getElementById('order-suggestions');
var dropBtn = document.getElementById('btn-desc-dropdown');
var logsBox = document.getElementById('logs-box');
var tbody = document.getElementById('orders-tbody');
var refreshBtn = document.getElementById('btn-refresh');
var addForm = document.getElementById('add-order-form');
var processForm = document.getElementById('process-orders-form');

// ============ Suggestions ============
function matchTasks(filter) {
 var q = (filter || '').trim().toLowerCase();
 if (!q) return TASKS;
 return TASKS.filter(function(t) { return t.name.toLowerCase().indexOf(q) !== -1; });
}

function applyTask(t) {
 if (descInput) descInput.value = t.name;
 if (timeInput) timeInput.value = t.time;
 if (prioSelect) prioSelect.value = String(t.priority);
}

function hideSuggestions() {
 if (sugList) sugList.style.display = 'none';
}

function renderSuggestions(filter) {
 if (!sugList) return;
 sugList.innerHTML = '';
 var matches = matchTasks(filter);
 if (matches.length === 0) {
  var empty = document.createElement('li');
  empty.textContent = 'Sin coincidencias';
  empty.className = 'empty';
  sugList.appendChild(empty);
 } else {
  matches.forEach(function(t) {
   var li = document.createElement('li');
   li.textContent = t.name;
   li.addEventListener('mousedown', function(ev) {
    ev.preventDefault();
    applyTask(t);
    hideSuggestions();
   });
   sugList.appendChild(li);
  });
 }
 sugList.style.display = 'block';
}

var blurTimer = null;
if (descInput && sugList) {
 descInput.addEventListener('focus', function() {
  if (blurTimer) { clearTimeout(blurTimer); blurTimer = null; }
  renderSuggestions(descInput.value);
 });
 descInput.addEventListener('input', function() {
  if (!descInput.value.trim()) { hideSuggestions(); return; }
  renderSuggestions(descInput.value);
 });
 descInput.addEventListener('blur', function() {
  blurTimer = setTimeout(function() { blurTimer = null; hideSuggestions(); }, 120);
 });
 descInput.addEventListener('change', function() {
  var info = TASKS_MAP[(descInput.value || '').trim().toLowerCase()];
  if (!info) return;
  if (timeInput) timeInput.value = info.time;
  if (prioSelect) prioSelect.value = String(info.priority);
 });
}

if (dropBtn && sugList) {
 dropBtn.addEventListener('mousedown', function(ev) { ev.preventDefault(); });
 dropBtn.addEventListener('click', function(ev) {
  ev.stopPropagation();
  if (sugList.style.display === 'block') { hideSuggestions(); return; }
  renderSuggestions(descInput ? descInput.value : '');
  if (descInput) descInput.focus();
 });
}

document.addEventListener('click', function(ev) {
 if (!sugList) return;
 if (ev.target !== descInput && ev.target !== dropBtn && !sugList.contains(ev.target)) hideSuggestions();
});

// ============ Status ============
function scrollLogs() {
 if (logsBox) logsBox.scrollTop = logsBox.scrollHeight;
}

function renderLogs(lines) {
 if (!logsBox) return;
 logsBox.innerHTML = '';
 lines.forEach(function(line) {
  var div = document.createElement('div');
  div.className = 'log-entry';
  div.textContent = line;
  logsBox.appendChild(div);
 });
 scrollLogs();
}

function renderOrders(orders) {
 if (!tbody) return;
 tbody.innerHTML = '';
 orders.forEach(function(o) {
  var tr = document.createElement('tr');
  var cells = [o.id, o.description, o.prep_time, o.priority, o.worker_id == null ? '' : o.worker_id, o.status];
  cells.forEach(function(v, i) {
   var td = document.createElement('td');
   td.textContent = v == null ? '' : String(v);
   if (i === 5) td.className = 'col-status';
   tr.appendChild(td);
  });
  tbody.appendChild(tr);
 });
 updateRefresh();
}

function statuses() {
 if (!tbody) return [];
 return Array.prototype.map.call(tbody.querySelectorAll('td.col-status'), function(td) { return td.textContent; });
}

function updateRefresh() {
 if (!refreshBtn) return;
 var all = statuses().every(function(s) { return s.trim().toLowerCase() === 'completada'; });
 refreshBtn.style.display = all ? 'none' : '';
}

var requested = 0;
var applied = 0;
function poll() {
 var gen = ++requested;
 return fetch('/estado-json', {cache: 'no-store'}).then(function(r) {
  if (!r.ok) throw new Error('HTTP ' + r.status);
  return r.json();
 }).then(function(data) {
  if (gen <= applied) return;
  applied = gen;
  if (Array.isArray(data.logs)) renderLogs(data.logs);
  if (Array.isArray(data.orders)) renderOrders(data.orders);
 }).catch(function(err) {
  console.error('estado-json:', err);
 });
}

scrollLogs();
updateRefresh();
if (refreshBtn) refreshBtn.addEventListener('click', function() { location.reload(); });
setInterval(poll, 1000);

// ============ Forms ============
function formValid() {
 var desc = descInput ? descInput.value.trim() : '';
 var timeRaw = timeInput ? timeInput.value.trim() : '';
 var prio = prioSelect ? prioSelect.value : '';
 if (!desc || !/^[+-]?\d+$/.test(timeRaw) || parseInt(timeRaw, 10) <= 0) return false;
 return prio !== '';
}

if (addForm) {
 addForm.addEventListener('submit', function(ev) {
  if (!formValid()) {
   ev.preventDefault();
   alert('Completa los campos obligatorios: descripción, tiempo (entero mayor que 0) y prioridad.');
  }
 });
}

if (processForm) {
 processForm.addEventListener('submit', function(ev) {
  ev.preventDefault();
  var valid = formValid();
  var rows = tbody ? tbody.querySelectorAll('tr').length : 0;
  if (rows === 0 && !valid) {
   alert('Agrega al menos una orden antes de procesar.');
   return;
  }
  if (!valid) { processForm.submit(); return; }
  fetch(addForm.action, {method: 'POST', body: new FormData(addForm)}).then(function(r) {
   if (!r.ok) throw new Error('HTTP ' + r.status);
   processForm.submit();
  }).catch(function(err) {
   console.error('add-order:', err);
   alert('No se pudo guardar la orden pendiente. No se procesaron las órdenes.');
  });
 });
}
})();
`
