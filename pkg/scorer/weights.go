// Package scorer calculates dependency risk scores from package manifests.
package scorer

import (
	"maps"
	"sort"

	"github.com/toyinlola/heft/pkg/interfaces"
)

// Category labels used by the heavy package catalog.
const (
	CategoryAIML              = "AI/ML"
	CategoryComputerVision    = "Computer Vision"
	CategoryBrowserAutomation = "Browser Automation"
	CategoryImageProcessing   = "Image Processing"
	CategoryVideoProcessing   = "Video Processing"
	CategoryDatabase          = "Database"
	CategoryBuildTools        = "Build Tools"
	CategoryFramework         = "Framework"
	CategoryDesktop           = "Desktop"
	CategoryCrypto            = "Crypto"
	CategoryFileProcessing    = "File Processing"
	CategoryTesting           = "Testing"
)

// Catalog maps an exact package name to its weight and category.
type Catalog map[string]interfaces.HeavyPackage

// heavyPackages is the built-in catalog. It is never mutated after init.
// Lookups are exact: scoped packages must be listed with their scope.
var heavyPackages = Catalog{
	// AI/ML
	"tensorflow":                {Weight: 10, Category: CategoryAIML},
	"@tensorflow/tfjs":          {Weight: 8, Category: CategoryAIML},
	"@tensorflow/tfjs-node":     {Weight: 10, Category: CategoryAIML},
	"@tensorflow/tfjs-node-gpu": {Weight: 10, Category: CategoryAIML},
	"brain.js":                  {Weight: 6, Category: CategoryAIML},
	"onnxruntime-node":          {Weight: 9, Category: CategoryAIML},
	"@xenova/transformers":      {Weight: 9, Category: CategoryAIML},
	"ml5":                       {Weight: 6, Category: CategoryAIML},
	"natural":                   {Weight: 3, Category: CategoryAIML},
	"openai":                    {Weight: 2, Category: CategoryAIML},
	"langchain":                 {Weight: 4, Category: CategoryAIML},
	"@huggingface/inference":    {Weight: 2, Category: CategoryAIML},

	// Computer Vision
	"opencv4nodejs":     {Weight: 9, Category: CategoryComputerVision},
	"@u4/opencv4nodejs": {Weight: 9, Category: CategoryComputerVision},
	"face-api.js":       {Weight: 7, Category: CategoryComputerVision},
	"tesseract.js":      {Weight: 6, Category: CategoryComputerVision},

	// Browser Automation
	"puppeteer":          {Weight: 8, Category: CategoryBrowserAutomation},
	"puppeteer-core":     {Weight: 6, Category: CategoryBrowserAutomation},
	"playwright":         {Weight: 8, Category: CategoryBrowserAutomation},
	"@playwright/test":   {Weight: 6, Category: CategoryBrowserAutomation},
	"selenium-webdriver": {Weight: 7, Category: CategoryBrowserAutomation},
	"chrome-aws-lambda":  {Weight: 7, Category: CategoryBrowserAutomation},
	"nightmare":          {Weight: 7, Category: CategoryBrowserAutomation},

	// Image Processing
	"sharp":       {Weight: 7, Category: CategoryImageProcessing},
	"jimp":        {Weight: 5, Category: CategoryImageProcessing},
	"canvas":      {Weight: 6, Category: CategoryImageProcessing},
	"gm":          {Weight: 4, Category: CategoryImageProcessing},
	"imagemagick": {Weight: 5, Category: CategoryImageProcessing},

	// Video Processing
	"fluent-ffmpeg":  {Weight: 9, Category: CategoryVideoProcessing},
	"ffmpeg-static":  {Weight: 8, Category: CategoryVideoProcessing},
	"@ffmpeg/ffmpeg": {Weight: 8, Category: CategoryVideoProcessing},

	// Database
	"mongoose":       {Weight: 4, Category: CategoryDatabase},
	"mongodb":        {Weight: 4, Category: CategoryDatabase},
	"pg":             {Weight: 3, Category: CategoryDatabase},
	"mysql2":         {Weight: 3, Category: CategoryDatabase},
	"sequelize":      {Weight: 4, Category: CategoryDatabase},
	"typeorm":        {Weight: 4, Category: CategoryDatabase},
	"prisma":         {Weight: 4, Category: CategoryDatabase},
	"@prisma/client": {Weight: 4, Category: CategoryDatabase},
	"redis":          {Weight: 3, Category: CategoryDatabase},
	"ioredis":        {Weight: 3, Category: CategoryDatabase},
	"sqlite3":        {Weight: 3, Category: CategoryDatabase},
	"better-sqlite3": {Weight: 3, Category: CategoryDatabase},
	"knex":           {Weight: 3, Category: CategoryDatabase},

	// Build Tools
	"webpack":     {Weight: 5, Category: CategoryBuildTools},
	"@babel/core": {Weight: 3, Category: CategoryBuildTools},
	"typescript":  {Weight: 3, Category: CategoryBuildTools},
	"esbuild":     {Weight: 2, Category: CategoryBuildTools},
	"vite":        {Weight: 3, Category: CategoryBuildTools},
	"rollup":      {Weight: 3, Category: CategoryBuildTools},
	"parcel":      {Weight: 4, Category: CategoryBuildTools},

	// Framework
	"next":          {Weight: 6, Category: CategoryFramework},
	"nuxt":          {Weight: 6, Category: CategoryFramework},
	"gatsby":        {Weight: 6, Category: CategoryFramework},
	"@angular/core": {Weight: 5, Category: CategoryFramework},
	"@nestjs/core":  {Weight: 5, Category: CategoryFramework},
	"express":       {Weight: 2, Category: CategoryFramework},

	// Desktop
	"electron":        {Weight: 10, Category: CategoryDesktop},
	"nw":              {Weight: 9, Category: CategoryDesktop},
	"@tauri-apps/api": {Weight: 4, Category: CategoryDesktop},

	// Crypto
	"bcrypt":     {Weight: 3, Category: CategoryCrypto},
	"node-forge": {Weight: 3, Category: CategoryCrypto},
	"crypto-js":  {Weight: 2, Category: CategoryCrypto},
	"ethers":     {Weight: 5, Category: CategoryCrypto},
	"web3":       {Weight: 6, Category: CategoryCrypto},

	// File Processing
	"pdfkit":    {Weight: 4, Category: CategoryFileProcessing},
	"pdf-lib":   {Weight: 4, Category: CategoryFileProcessing},
	"pdf-parse": {Weight: 3, Category: CategoryFileProcessing},
	"xlsx":      {Weight: 4, Category: CategoryFileProcessing},
	"exceljs":   {Weight: 4, Category: CategoryFileProcessing},
	"archiver":  {Weight: 3, Category: CategoryFileProcessing},

	// Testing
	"jest":    {Weight: 3, Category: CategoryTesting},
	"mocha":   {Weight: 2, Category: CategoryTesting},
	"vitest":  {Weight: 3, Category: CategoryTesting},
	"karma":   {Weight: 4, Category: CategoryTesting},
	"cypress": {Weight: 7, Category: CategoryTesting},
}

// Capability name-sets. They are declared independently of category membership:
// aiPackages intentionally covers only part of the AI/ML category plus the
// computer vision libraries.
var (
	browserAutomationPackages = []string{
		"puppeteer", "puppeteer-core", "playwright", "@playwright/test",
		"selenium-webdriver", "chrome-aws-lambda", "nightmare",
	}

	aiPackages = []string{
		"tensorflow", "@tensorflow/tfjs", "@tensorflow/tfjs-node", "@tensorflow/tfjs-node-gpu",
		"brain.js", "onnxruntime-node", "@xenova/transformers",
		"opencv4nodejs", "@u4/opencv4nodejs", "face-api.js",
	}

	imageProcessingPackages = []string{"sharp", "jimp", "canvas", "gm", "imagemagick"}

	videoProcessingPackages = []string{"fluent-ffmpeg", "ffmpeg-static", "@ffmpeg/ffmpeg"}

	databasePackages = []string{
		"mongoose", "mongodb", "pg", "mysql2", "sequelize", "typeorm",
		"prisma", "@prisma/client", "redis", "ioredis", "sqlite3", "better-sqlite3", "knex",
	}
)

// DefaultCatalog returns a copy of the built-in heavy package catalog.
func DefaultCatalog() Catalog {
	return maps.Clone(heavyPackages)
}

// Lookup returns the catalog entry for an exact package name.
func (c Catalog) Lookup(name string) (interfaces.HeavyPackage, bool) {
	p, ok := c[name]
	return p, ok
}

// Categories returns the sorted, distinct category labels of the catalog.
func (c Catalog) Categories() []string {
	seen := make(map[string]bool)
	for _, p := range c {
		seen[p.Category] = true
	}
	out := make([]string, 0, len(seen))
	for cat := range seen {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}
