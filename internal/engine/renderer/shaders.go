package renderer

const sceneVertex = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;

uniform mat4 uViewProj;
uniform mat4 uModel;
uniform mat4 uLightVP;

out vec3 vNormal;
out vec3 vWorldPos;
out vec4 vLightPos;

void main() {
	vec4 world = uModel * vec4(aPos, 1.0);
	vWorldPos = world.xyz;
	vNormal = mat3(transpose(inverse(uModel))) * aNormal;
	vLightPos = uLightVP * world;
	gl_Position = uViewProj * world;
}
`

const sceneFragment = `
#version 410 core

in vec3 vNormal;
in vec3 vWorldPos;
in vec4 vLightPos;

uniform vec3 uColor;
uniform float uMetalness;
uniform float uRoughness;

uniform vec3 uAmbient;
uniform vec3 uLightColor;
uniform vec3 uLightDir;
uniform vec3 uCameraPos;

uniform sampler2DShadow uShadowMap;
uniform int uShadows;

out vec4 FragColor;

float shadowFactor(vec3 n) {
	if (uShadows == 0) {
		return 1.0;
	}
	vec3 p = vLightPos.xyz / vLightPos.w * 0.5 + 0.5;
	if (p.z > 1.0) {
		return 1.0;
	}
	float bias = max(0.002 * (1.0 - dot(n, uLightDir)), 0.0005);
	vec2 texel = 1.0 / vec2(textureSize(uShadowMap, 0));
	float lit = 0.0;
	for (int x = -1; x <= 1; x++) {
		for (int y = -1; y <= 1; y++) {
			lit += texture(uShadowMap, vec3(p.xy + vec2(x, y) * texel, p.z - bias));
		}
	}
	return lit / 9.0;
}

void main() {
	vec3 n = normalize(vNormal);
	if (!gl_FrontFacing) {
		n = -n;
	}

	float diffuse = max(dot(n, uLightDir), 0.0);

	vec3 v = normalize(uCameraPos - vWorldPos);
	vec3 h = normalize(uLightDir + v);
	float shininess = mix(128.0, 4.0, uRoughness);
	float spec = pow(max(dot(n, h), 0.0), shininess) * (1.0 - uRoughness);
	vec3 specColor = mix(vec3(0.04), uColor, uMetalness);

	float shadow = shadowFactor(n);
	vec3 base = uColor * (1.0 - 0.5 * uMetalness);
	vec3 color = base * uAmbient + (base * diffuse + specColor * spec) * uLightColor * shadow;
	FragColor = vec4(color, 1.0);
}
`

const overlayVertex = `
#version 410 core

layout (location = 0) in vec2 aPos;
layout (location = 1) in vec4 aColor;

uniform mat4 uProjection;

out vec4 vColor;

void main() {
	gl_Position = uProjection * vec4(aPos, 0.0, 1.0);
	vColor = aColor;
}
`

const overlayFragment = `
#version 410 core

in vec4 vColor;
out vec4 FragColor;

void main() {
	FragColor = vColor;
}
`
