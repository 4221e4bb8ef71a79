package utilities

import (
	"log"
	"os"
	"time"
)

// Loggers com diferentes prefixos, prontos desde a carga do pacote
var (
	InfoLogger  = log.New(os.Stdout, "\033[32m[INFO]\033[0m ", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	ErrorLogger = log.New(os.Stderr, "\033[31m[ERROR]\033[0m ", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLogger = log.New(os.Stdout, "\033[36m[DEBUG]\033[0m ", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
)

// InitLogger configura o formato de data/hora do logger padrão
func InitLogger() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
}

// LogRequest registra informações sobre a requisição HTTP
func LogRequest(method, path, remoteAddr string, status int, duration time.Duration) {
	InfoLogger.Printf("%s %s %s %d %v", method, path, remoteAddr, status, duration)
}

// LogError registra erros com stack trace
func LogError(err error, context string) {
	ErrorLogger.Printf("%s: %v", context, err)
}

// LogDebug registra informações de debug
func LogDebug(format string, v ...interface{}) {
	DebugLogger.Printf(format, v...)
}

// LogInfo registra informações gerais
func LogInfo(format string, v ...interface{}) {
	InfoLogger.Printf(format, v...)
}
