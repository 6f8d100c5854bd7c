package network

import (
	"net"
	"net/url"
	"strconv"
	"time"
)

// CheckPort 检查指定主机和端口是否可连接
// 返回值：true表示可连接，false表示不可连接
func CheckPort(host string, port int) bool {
	address := net.JoinHostPort(host, strconv.Itoa(port))
	timeout := 5 * time.Second

	// 尝试建立TCP连接
	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return false
	}
	defer conn.Close()

	return true
}

// CheckURL 检查URL指向的服务是否可连接
// 端口缺省时按协议取443或80
func CheckURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}

	port := 80
	if u.Scheme == "https" {
		port = 443
	}
	if p := u.Port(); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil {
			port = parsed
		}
	}

	return CheckPort(u.Hostname(), port)
}
