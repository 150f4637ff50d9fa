package blogs

// FeaturedSampleSize exposes featuredSampleSize to the external test package.
const FeaturedSampleSize = featuredSampleSize
