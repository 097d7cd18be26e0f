package analysis

// SampleLogs is a short access log with a mix of benign requests, SQL
// injection, path traversal and a wp-config probe.
const SampleLogs = `192.168.1.10 - - [12/Feb/2026:10:00:01] "GET /index.php HTTP/1.1" 200 452
10.0.0.5 - - [12/Feb/2026:10:00:05] "GET /admin' OR '1'='1 HTTP/1.1" 404 120
192.168.1.10 - - [12/Feb/2026:10:00:10] "GET /style.css HTTP/1.1" 200 1240
203.0.113.45 - - [12/Feb/2026:10:00:15] "GET /../../../etc/passwd HTTP/1.1" 403 89
192.168.1.10 - - [12/Feb/2026:10:00:20] "GET /script.js HTTP/1.1" 200 3456
10.0.0.8 - - [12/Feb/2026:10:00:25] "POST /login.php HTTP/1.1" 500 234
198.51.100.22 - - [12/Feb/2026:10:00:30] "GET /admin/config.php HTTP/1.1" 404 156
192.168.1.10 - - [12/Feb/2026:10:00:35] "GET /images/logo.png HTTP/1.1" 200 8923
45.33.32.156 - - [12/Feb/2026:10:00:40] "GET /wp-admin/admin-ajax.php?action=revslider_show_image&img=../wp-config.php HTTP/1.1" 403 78
`
