// Command cachesrv runs the memcached-ASCII-subset cache server.
package main

func main() {
	Execute()
}
